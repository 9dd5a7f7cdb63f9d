package instance

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeInstanceFiles(t *testing.T, dir string) {
	t.Helper()
	files := map[string]string{
		"depot_nodes.csv": "id,x,y,capacity,cost_operational,cost_fixed,mandatory,share_low,share_high,window_start,window_end\n" +
			"0,0,0,1000,1,500,1,0,1,0,1000000\n",
		"customer_nodes.csv": "id,x,y,demand,service_duration,window_start,window_end\n" +
			"0,1,0,5,10,0,1000000\n" +
			"1,2,0,5,10,0,1000000\n",
		"vehicles.csv": "depot_id,type_index,capacity,range,speed,fuel_time,load_time,service_overhead,max_work_dur,max_routes,cost_per_dist,cost_per_time,fixed_cost\n" +
			"0,0,100,100000,1,0,0,0,1000000,2,1,1,100\n",
		"arcs.csv": "from,to,length\n" +
			"0,1,1\n0,2,2\n1,2,1\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
}

func TestBuildFromLocalSource(t *testing.T) {
	root := t.TempDir()
	instDir := filepath.Join(root, "demo")
	if err := os.MkdirAll(instDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeInstanceFiles(t, instDir)

	Register("local", LocalSource{Root: root})

	g, err := Build(context.Background(), "demo")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(g.Depots) != 1 || len(g.Customers) != 2 {
		t.Fatalf("got %d depots, %d customers", len(g.Depots), len(g.Customers))
	}
	if g.Customers[0].NodeID != 1 || g.Customers[1].NodeID != 2 {
		t.Fatalf("NodeIDs not offset by depot count: %d, %d", g.Customers[0].NodeID, g.Customers[1].NodeID)
	}
	if g.Arc(0, 1) != 1 {
		t.Fatalf("Arc(0,1) = %v, want 1", g.Arc(0, 1))
	}
	if len(g.VehicleTypes) != 1 || g.VehicleTypes[0].MaxRoutes != 2 {
		t.Fatalf("vehicle roster not parsed correctly: %+v", g.VehicleTypes)
	}
}

func TestResolveSourceSFTPPrefix(t *testing.T) {
	Register("sftp", SFTPSource{})
	_, name := resolveSource("sftp://host/dir#demo")
	if name != "host/dir#demo" {
		t.Fatalf("resolveSource stripped prefix incorrectly: %q", name)
	}
}

func TestBuildMissingFileIsInstanceError(t *testing.T) {
	root := t.TempDir()
	Register("local", LocalSource{Root: root})
	_, err := Build(context.Background(), "does-not-exist")
	if err == nil {
		t.Fatalf("expected an error for a missing instance directory")
	}
}
