package instance

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"lrpalns/internal/model"
)

// LocalSource reads the four instance CSVs from a directory named after
// the instance, under Root (§6: "loads depots, customers, arcs from a
// directory named after the instance").
type LocalSource struct {
	Root string
}

func init() {
	Register("local", LocalSource{Root: os.Getenv("INSTANCE_ROOT")})
}

func (l LocalSource) Fetch(ctx context.Context, name string) (Tables, error) {
	dir := filepath.Join(l.Root, name)
	depots, err := readCSV(filepath.Join(dir, "depot_nodes.csv"))
	if err != nil {
		return Tables{}, model.NewInstanceError("reading depot_nodes.csv: %v", err)
	}
	customers, err := readCSV(filepath.Join(dir, "customer_nodes.csv"))
	if err != nil {
		return Tables{}, model.NewInstanceError("reading customer_nodes.csv: %v", err)
	}
	vehicles, err := readCSV(filepath.Join(dir, "vehicles.csv"))
	if err != nil {
		return Tables{}, model.NewInstanceError("reading vehicles.csv: %v", err)
	}
	arcsPath := filepath.Join(dir, "arcs.csv")
	if _, err := os.Stat(arcsPath); os.IsNotExist(err) {
		arcsPath = filepath.Join(dir, "distance_matrix.csv")
	}
	arcs, err := readCSV(arcsPath)
	if err != nil {
		return Tables{}, model.NewInstanceError("reading arcs/distance_matrix.csv: %v", err)
	}
	return Tables{Depots: depots, Customers: customers, Arcs: arcs, Vehicles: vehicles}, nil
}

func readCSV(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil // drop header row
}
