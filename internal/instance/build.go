package instance

import (
	"context"
	"strings"

	"lrpalns/internal/model"
)

// Build loads depots, customers, arcs and the vehicle roster for the named
// instance and assembles them into a model.Graph (§6's
// "build(instance_name) → Graph"). The source is chosen by prefix:
// "sftp://host/remote/dir#name" dispatches to the registered SFTP source;
// anything else is treated as a local instance name under LocalSource's
// Root.
func Build(ctx context.Context, sourceName string) (*model.Graph, error) {
	src, name := resolveSource(sourceName)
	tables, err := src.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	depots, err := parseDepots(tables.Depots)
	if err != nil {
		return nil, err
	}
	customers, err := parseCustomers(tables.Customers)
	if err != nil {
		return nil, err
	}
	vehicles, err := parseVehicles(tables.Vehicles)
	if err != nil {
		return nil, err
	}
	arcs, err := parseArcs(tables.Arcs, len(depots)+len(customers))
	if err != nil {
		return nil, err
	}

	for i := range customers {
		customers[i].NodeID = len(depots) + i
	}
	for i := range vehicles {
		if vehicles[i].Depot < 0 || vehicles[i].Depot >= len(depots) {
			return nil, model.NewInstanceError("vehicles.csv row %d: depot_id %d out of range", i, vehicles[i].Depot)
		}
	}

	return &model.Graph{
		Depots:       depots,
		Customers:    customers,
		Arcs:         arcs,
		VehicleTypes: vehicles,
		TimeTracking: true,
	}, nil
}

// resolveSource picks a Source from Registry by the sourceName's scheme
// prefix ("sftp://...") and returns the bare instance name the Source
// should fetch. Everything without a recognized scheme goes to "local".
func resolveSource(sourceName string) (Source, string) {
	if rest, ok := cutPrefix(sourceName, "sftp://"); ok {
		if src, ok := Registry["sftp"]; ok {
			return src, rest
		}
	}
	return Registry["local"], sourceName
}

func cutPrefix(s, prefix string) (string, bool) {
	if strings.HasPrefix(s, prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
