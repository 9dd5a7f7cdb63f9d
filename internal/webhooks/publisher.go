package webhooks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lrpalns/internal/store"
)

// Publisher emits run.completed/run.failed events (§14) to every webhook
// subscription registered for a workspace, enqueuing one delivery per
// subscription for Worker to drain.
type Publisher struct {
	Store store.Store
}

func NewPublisher(s store.Store) *Publisher {
	return &Publisher{Store: s}
}

// Emit enqueues eventType (run.completed or run.failed) to every
// subscription registered for workspace.
func (p *Publisher) Emit(ctx context.Context, workspace, eventType string, data any) {
	subs, err := p.Store.GetSubscriptionsForEvent(ctx, workspace, eventType)
	if err != nil || len(subs) == 0 {
		return
	}
	payload := map[string]any{
		"id":        fmt.Sprintf("evt_%d", time.Now().UnixNano()),
		"type":      eventType,
		"workspace": workspace,
		"ts":        time.Now().UTC().Format(time.RFC3339),
		"data":      data,
	}
	body, _ := json.Marshal(payload)
	for _, sub := range subs {
		_, _ = p.Store.EnqueueWebhook(ctx, workspace, sub.ID, eventType, sub.URL, sub.Secret, body)
	}
}
