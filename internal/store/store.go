// Package store persists run records and webhook delivery state (§11,
// §14). It is deliberately scoped to what the optimizer driver and the
// webhook subsystem need — a run-submission API that grew richer
// resource types would grow this interface, but a batch-job façade
// doesn't need more than runs, subscriptions, and deliveries.
package store

import (
	"context"
	"errors"
	"time"

	"lrpalns/internal/opt"
)

// RunRecord is one ALNS invocation from submission to completion,
// keyed by a UUID (§13's Run).
type RunRecord struct {
	ID          string
	Workspace   string
	Instance    string
	Method      string
	Parameters  opt.Parameters
	Status      string // "running", "completed", "failed"
	BestCost    float64
	CostHistory []float64
	Vectorize   [][]int
	Error       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Subscription registers a workspace's interest in run.completed and/or
// run.failed deliveries to URL, signed with Secret.
type Subscription struct {
	ID        string
	Workspace string
	URL       string
	Secret    string
	Events    []string
}

// WebhookDelivery is one queued or in-flight notification attempt.
type WebhookDelivery struct {
	ID             string
	Workspace      string
	SubscriptionID string
	EventType      string
	URL            string
	Secret         string
	Payload        []byte
	Status         string
	Attempts       int
}

// Store is the persistence interface used by the run-submission server
// and the webhook delivery worker.
type Store interface {
	CreateRun(ctx context.Context, r RunRecord) error
	UpdateRun(ctx context.Context, r RunRecord) error
	GetRun(ctx context.Context, workspace, id string) (RunRecord, error)
	ListRuns(ctx context.Context, workspace, cursor string, limit int) ([]RunRecord, string, error)

	CreateSubscription(ctx context.Context, workspace, url, secret string, events []string) (Subscription, error)
	GetSubscriptionsForEvent(ctx context.Context, workspace, eventType string) ([]Subscription, error)
	ListSubscriptions(ctx context.Context, workspace string) ([]Subscription, error)
	DeleteSubscription(ctx context.Context, workspace, id string) error

	EnqueueWebhook(ctx context.Context, workspace, subscriptionID, eventType, url, secret string, payload []byte) (string, error)
	FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error)
	MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode, latencyMs int) error
	FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode, latencyMs int) error
}

var ErrNotFound = errors.New("not found")
