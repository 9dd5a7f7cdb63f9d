package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

// streamRun upgrades the connection and replays RunEvents published for
// runID until the run reports Done, then closes. This is the plain
// convergence stream §13 asks for — no subscription protocol, since a
// run has exactly one stream to replay, not an arbitrary query.
func (s *Server) streamRun(w http.ResponseWriter, r *http.Request, workspace, runID string) {
	if _, err := s.Store.GetRun(r.Context(), workspace, runID); err != nil {
		writeProblem(w, http.StatusNotFound, "Run not found", err.Error(), r.URL.Path)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	ch := s.Broker.Subscribe(runID)
	defer s.Broker.Unsubscribe(runID, ch)

	conn.SetReadLimit(1 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error { _ = conn.SetReadDeadline(time.Now().Add(60 * time.Second)); return nil })
	go drainReads(conn)

	for evt := range ch {
		if err := conn.WriteJSON(evt); err != nil {
			return
		}
		if evt.Done {
			return
		}
	}
}

// drainReads discards client frames so pings/pongs and close frames are
// processed; the stream is server-to-client only.
func drainReads(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
