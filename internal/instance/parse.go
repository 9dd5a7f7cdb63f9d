package instance

import (
	"strconv"

	"lrpalns/internal/model"
)

// Columns match §3's essential attributes exactly, in this order:
//
//	depot_nodes.csv:    id,x,y,capacity,cost_operational,cost_fixed,mandatory,share_low,share_high,window_start,window_end
//	customer_nodes.csv: id,x,y,demand,service_duration,window_start,window_end
//	vehicles.csv:       depot_id,type_index,capacity,range,speed,fuel_time,load_time,service_overhead,max_work_dur,max_routes,cost_per_dist,cost_per_time,fixed_cost
//	arcs.csv:           from,to,length                              (sparse)
//	distance_matrix.csv: one row per node (depots then customers, in file order), one column per node

func parseDepots(t Table) ([]model.Depot, error) {
	out := make([]model.Depot, len(t))
	for i, row := range t {
		if len(row) < 11 {
			return nil, model.NewInstanceError("depot_nodes.csv row %d: expected 11 columns, got %d", i, len(row))
		}
		x, err := parseFloats(row[1], row[2], row[3], row[4], row[5], row[7], row[8], row[9], row[10])
		if err != nil {
			return nil, model.NewInstanceError("depot_nodes.csv row %d: %v", i, err)
		}
		out[i] = model.Depot{
			Index:           i,
			Coord:           model.Point{X: x[0], Y: x[1]},
			Capacity:        x[2],
			CostOperational: x[3],
			CostFixed:       x[4],
			Mandatory:       row[6] == "1" || row[6] == "true",
			ShareLow:        x[5],
			ShareHigh:       x[6],
			Window:          model.TimeWindow{Start: x[7], End: x[8]},
		}
	}
	return out, nil
}

func parseCustomers(t Table) ([]model.Customer, error) {
	out := make([]model.Customer, len(t))
	for i, row := range t {
		if len(row) < 7 {
			return nil, model.NewInstanceError("customer_nodes.csv row %d: expected 7 columns, got %d", i, len(row))
		}
		x, err := parseFloats(row[1], row[2], row[3], row[4], row[5], row[6])
		if err != nil {
			return nil, model.NewInstanceError("customer_nodes.csv row %d: %v", i, err)
		}
		out[i] = model.Customer{
			Index:      i,
			// NodeID is set by Build once the depot count is known, since
			// it must equal len(Depots)+Index (§3's shared node-id space).
			Coord:      model.Point{X: x[0], Y: x[1]},
			Demand:     x[2],
			ServiceDur: x[3],
			Window:     model.TimeWindow{Start: x[4], End: x[5]},
		}
	}
	return out, nil
}

func parseVehicles(t Table) ([]model.Vehicle, error) {
	out := make([]model.Vehicle, len(t))
	for i, row := range t {
		if len(row) < 13 {
			return nil, model.NewInstanceError("vehicles.csv row %d: expected 13 columns, got %d", i, len(row))
		}
		depotID, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, model.NewInstanceError("vehicles.csv row %d: bad depot_id: %v", i, err)
		}
		typeIdx, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, model.NewInstanceError("vehicles.csv row %d: bad type_index: %v", i, err)
		}
		maxRoutes, err := strconv.Atoi(row[9])
		if err != nil {
			return nil, model.NewInstanceError("vehicles.csv row %d: bad max_routes: %v", i, err)
		}
		x, err := parseFloats(row[2], row[3], row[4], row[5], row[6], row[7], row[8], row[10], row[11], row[12])
		if err != nil {
			return nil, model.NewInstanceError("vehicles.csv row %d: %v", i, err)
		}
		out[i] = model.Vehicle{
			Depot:           depotID,
			TypeIndex:       typeIdx,
			Capacity:        x[0],
			Range:           x[1],
			Speed:           x[2],
			FuelTime:        x[3],
			LoadTime:        x[4],
			ServiceOverhead: x[5],
			MaxWorkDur:      x[6],
			MaxRoutes:       maxRoutes,
			CostPerDist:     x[7],
			CostPerTime:     x[8],
			FixedCost:       x[9],
		}
	}
	return out, nil
}

// parseArcs accepts either a sparse (from,to,length) table or a dense
// distance matrix (one row/column per node, depots then customers). It
// distinguishes them by row width: three columns is always sparse, since a
// genuine instance always has more than three nodes.
func parseArcs(t Table, numNodes int) (map[model.ArcKey]float64, error) {
	arcs := make(map[model.ArcKey]float64)
	if len(t) > 0 && len(t[0]) == 3 {
		for i, row := range t {
			from, err1 := strconv.Atoi(row[0])
			to, err2 := strconv.Atoi(row[1])
			length, err3 := strconv.ParseFloat(row[2], 64)
			if err1 != nil || err2 != nil || err3 != nil {
				return nil, model.NewInstanceError("arcs.csv row %d: malformed", i)
			}
			arcs[model.ArcKey{From: from, To: to}] = length
		}
		return arcs, nil
	}
	if len(t) != numNodes {
		return nil, model.NewInstanceError("distance_matrix.csv: expected %d rows, got %d", numNodes, len(t))
	}
	for i, row := range t {
		if len(row) != numNodes {
			return nil, model.NewInstanceError("distance_matrix.csv row %d: expected %d columns, got %d", i, numNodes, len(row))
		}
		for j, cell := range row {
			length, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, model.NewInstanceError("distance_matrix.csv[%d][%d]: %v", i, j, err)
			}
			arcs[model.ArcKey{From: i, To: j}] = length
		}
	}
	return arcs, nil
}

func parseFloats(fields ...string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
