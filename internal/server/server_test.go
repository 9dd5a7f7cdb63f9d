package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lrpalns/internal/auth"
	"lrpalns/internal/broker"
	"lrpalns/internal/config"
	"lrpalns/internal/instance"
	"lrpalns/internal/store"
	"lrpalns/internal/webhooks"
)

func writeTestInstance(t *testing.T, root, name string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	files := map[string]string{
		"depot_nodes.csv": "id,x,y,capacity,cost_operational,cost_fixed,mandatory,share_low,share_high,window_start,window_end\n" +
			"0,0,0,1000,1,500,1,0,1,0,1000000\n",
		"customer_nodes.csv": "id,x,y,demand,service_duration,window_start,window_end\n" +
			"0,1,0,5,10,0,1000000\n1,2,0,5,10,0,1000000\n",
		"vehicles.csv": "depot_id,type_index,capacity,range,speed,fuel_time,load_time,service_overhead,max_work_dur,max_routes,cost_per_dist,cost_per_time,fixed_cost\n" +
			"0,0,100,100000,1,0,0,0,1000000,2,1,1,100\n",
		"arcs.csv": "from,to,length\n0,1,1\n0,2,2\n1,2,1\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
}

func testServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	writeTestInstance(t, root, "demo")
	instance.Register("local", instance.LocalSource{Root: root})

	cfg := config.Default()
	cfg.Parameters.TotalIterations = 5

	st := store.NewMemory()
	srv := &Server{
		Store:    st,
		Pub:      webhooks.NewPublisher(st),
		Auth:     &auth.Verifier{Mode: "dev"},
		Broker:   broker.NewMemory(),
		Defaults: cfg.Parameters,
	}
	return srv, "demo"
}

func TestRunsHandlerSubmitAndFetch(t *testing.T) {
	srv, instName := testServer(t)
	body, _ := json.Marshal(map[string]any{"instance": instName, "method": "cw"})
	req := httptest.NewRequest(http.MethodPost, "/v1/runs", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer ws1:user")
	rec := httptest.NewRecorder()
	srv.RunsHandler(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID == "" {
		t.Fatalf("no run id returned")
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		getReq := httptest.NewRequest(http.MethodGet, "/v1/runs/"+resp.ID, nil)
		getReq.Header.Set("Authorization", "Bearer ws1:user")
		getRec := httptest.NewRecorder()
		srv.RunByIDHandler(getRec, getReq)
		var got store.RunRecord
		if err := json.Unmarshal(getRec.Body.Bytes(), &got); err == nil && (got.Status == "completed" || got.Status == "failed") {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("run did not finish within deadline")
}

func TestRunsHandlerRejectsMissingAuth(t *testing.T) {
	srv, instName := testServer(t)
	body, _ := json.Marshal(map[string]any{"instance": instName})
	req := httptest.NewRequest(http.MethodPost, "/v1/runs", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.RunsHandler(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRunsHandlerRejectsMissingInstance(t *testing.T) {
	srv, _ := testServer(t)
	body, _ := json.Marshal(map[string]any{})
	req := httptest.NewRequest(http.MethodPost, "/v1/runs", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer ws1:user")
	rec := httptest.NewRecorder()
	srv.RunsHandler(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHealthAndReadyHandlers(t *testing.T) {
	srv, _ := testServer(t)
	rec := httptest.NewRecorder()
	srv.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
	rec2 := httptest.NewRecorder()
	srv.ReadyHandler(rec2, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec2.Code != http.StatusOK {
		t.Fatalf("readyz status = %d", rec2.Code)
	}
}
