// Package server exposes the §13 run-submission façade: POST a run,
// poll its status, or stream its convergence over a WebSocket. It is
// the "thin CLI/example driver" of spec.md's Out-of-scope, built out to
// the level the teacher's own API layer treats its thinnest surfaces —
// validate, return problem+json, delegate to the real component.
package server

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"lrpalns/internal/auth"
	"lrpalns/internal/broker"
	"lrpalns/internal/config"
	"lrpalns/internal/instance"
	"lrpalns/internal/model"
	"lrpalns/internal/opt"
	"lrpalns/internal/store"
	"lrpalns/internal/webhooks"
)

// Server holds every dependency a run-submission handler needs.
type Server struct {
	Store    store.Store
	Pub      *webhooks.Publisher
	Auth     *auth.Verifier
	Broker   broker.EventBroker
	Defaults opt.Parameters
}

// New builds a Server from cfg: Postgres when DatabaseURL is set,
// otherwise Memory; Redis broker when RedisURL is set, otherwise an
// in-memory one.
func New(cfg *config.Config) (*Server, error) {
	var st store.Store
	if strings.TrimSpace(cfg.Server.DatabaseURL) != "" {
		pg, err := store.NewPostgres(cfg.Server.DatabaseURL)
		if err != nil {
			return nil, err
		}
		st = pg
	} else {
		st = store.NewMemory()
	}

	var b broker.EventBroker
	if strings.TrimSpace(cfg.Server.RedisURL) != "" {
		if rb, err := broker.NewRedis(cfg.Server.RedisURL); err == nil {
			b = rb
		}
	}
	if b == nil {
		b = broker.NewMemory()
	}

	return &Server{
		Store:    st,
		Pub:      webhooks.NewPublisher(st),
		Auth:     auth.NewVerifierFromEnv(),
		Broker:   b,
		Defaults: cfg.Parameters,
	}, nil
}

// NewWebhookWorker starts a worker draining this server's store.
func (s *Server) NewWebhookWorker() *webhooks.Worker {
	return webhooks.NewWorker(s.Store)
}

// submitRun runs Build → BuilderRegistry[method] → opt.Solve in the
// background, publishing RunEvents to s.Broker and persisting the
// final RunRecord, then emitting run.completed/run.failed.
func (s *Server) submitRun(workspace, instanceName, method string, params opt.Parameters) (string, error) {
	if _, ok := opt.BuilderRegistry[method]; !ok {
		return "", model.NewConfigError("unknown initial-solution method %q", method)
	}
	if err := params.Validate(); err != nil {
		return "", err
	}

	id := uuid.New().String()
	rec := store.RunRecord{
		ID:         id,
		Workspace:  workspace,
		Instance:   instanceName,
		Method:     method,
		Parameters: params,
		Status:     "running",
		CreatedAt:  timeNow(),
		UpdatedAt:  timeNow(),
	}
	ctx := context.Background()
	if err := s.Store.CreateRun(ctx, rec); err != nil {
		return "", err
	}

	go s.runAndFinish(ctx, rec)
	return id, nil
}

func (s *Server) runAndFinish(ctx context.Context, rec store.RunRecord) {
	g, err := instance.Build(ctx, rec.Instance)
	if err != nil {
		s.failRun(ctx, rec, err)
		return
	}
	s0, err := opt.BuilderRegistry[rec.Method](rand.New(rand.NewSource(rec.Parameters.Seed)), g, rec.Parameters.Weights)
	if err != nil {
		s.failRun(ctx, rec, err)
		return
	}

	progress := func(iter int, bestCost, currentCost, temperature float64) {
		s.Broker.Publish(rec.ID, broker.RunEvent{
			RunID: rec.ID, Iteration: iter, BestCost: bestCost, CurrentCost: currentCost, Temperature: temperature,
		})
	}

	result, err := opt.Solve(rand.New(rand.NewSource(rec.Parameters.Seed)), rec.Parameters, s0, rec.Instance, progress)
	if err != nil {
		s.failRun(ctx, rec, err)
		return
	}

	rec.Status = "completed"
	rec.BestCost = result.BestCost
	rec.CostHistory = result.History
	rec.Vectorize = model.Vectorize(result.Best)
	rec.UpdatedAt = timeNow()
	_ = s.Store.UpdateRun(ctx, rec)
	s.Broker.Publish(rec.ID, broker.RunEvent{RunID: rec.ID, Done: true, BestCost: rec.BestCost})
	s.Pub.Emit(ctx, rec.Workspace, "run.completed", map[string]any{"runId": rec.ID, "bestCost": rec.BestCost})
}

func (s *Server) failRun(ctx context.Context, rec store.RunRecord, err error) {
	rec.Status = "failed"
	rec.Error = err.Error()
	rec.UpdatedAt = timeNow()
	_ = s.Store.UpdateRun(ctx, rec)
	s.Broker.Publish(rec.ID, broker.RunEvent{RunID: rec.ID, Done: true, Error: err.Error()})
	s.Pub.Emit(ctx, rec.Workspace, "run.failed", map[string]any{"runId": rec.ID, "error": err.Error()})
}

func timeNow() time.Time { return time.Now() }
