package store

import (
	"context"
	"testing"
)

func TestMemoryCreateGetRunScopedByWorkspace(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	rec := RunRecord{ID: "r1", Workspace: "ws1", Status: "running"}
	if err := m.CreateRun(ctx, rec); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if _, err := m.GetRun(ctx, "ws2", "r1"); err != ErrNotFound {
		t.Fatalf("GetRun from wrong workspace = %v, want ErrNotFound", err)
	}
	got, err := m.GetRun(ctx, "ws1", "r1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.ID != "r1" {
		t.Fatalf("GetRun returned %+v", got)
	}
}

func TestMemoryListRunsPagination(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		if err := m.CreateRun(ctx, RunRecord{ID: id, Workspace: "ws1"}); err != nil {
			t.Fatalf("CreateRun: %v", err)
		}
	}
	page1, cursor, err := m.ListRuns(ctx, "ws1", "", 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(page1) != 2 || cursor == "" {
		t.Fatalf("page1 = %v, cursor = %q", page1, cursor)
	}
	page2, _, err := m.ListRuns(ctx, "ws1", cursor, 2)
	if err != nil {
		t.Fatalf("ListRuns page2: %v", err)
	}
	if len(page2) != 2 {
		t.Fatalf("page2 = %v, want 2 items", page2)
	}
	if page1[0].ID == page2[0].ID {
		t.Fatalf("page2 repeated page1's first item")
	}
}

func TestMemoryWebhookDeliveryLifecycle(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	id, err := m.EnqueueWebhook(ctx, "ws1", "sub1", "run.completed", "https://example.test/hook", "secret", []byte(`{}`))
	if err != nil {
		t.Fatalf("EnqueueWebhook: %v", err)
	}
	due, err := m.FetchDueWebhookDeliveries(ctx, 10)
	if err != nil || len(due) != 1 {
		t.Fatalf("FetchDueWebhookDeliveries = %v, %v", due, err)
	}
	if err := m.MarkWebhookDelivery(ctx, id, true, nil, "", 200, 15); err != nil {
		t.Fatalf("MarkWebhookDelivery: %v", err)
	}
	due, err = m.FetchDueWebhookDeliveries(ctx, 10)
	if err != nil || len(due) != 0 {
		t.Fatalf("delivered item still due: %v", due)
	}
}

func TestMemorySubscriptionFilterByEvent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	if _, err := m.CreateSubscription(ctx, "ws1", "https://example.test/a", "s", []string{"run.completed"}); err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}
	if _, err := m.CreateSubscription(ctx, "ws1", "https://example.test/b", "s", []string{"run.failed"}); err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}
	matches, err := m.GetSubscriptionsForEvent(ctx, "ws1", "run.completed")
	if err != nil {
		t.Fatalf("GetSubscriptionsForEvent: %v", err)
	}
	if len(matches) != 1 || matches[0].URL != "https://example.test/a" {
		t.Fatalf("matches = %+v", matches)
	}
}
