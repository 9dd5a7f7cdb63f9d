package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres is a database/sql Store backed by the pgx/v5 stdlib driver,
// used when DATABASE_URL is configured (§11).
type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

// Ping reports whether the underlying connection pool is reachable,
// used by the readiness probe.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Postgres) CreateRun(ctx context.Context, r RunRecord) error {
	params, err := json.Marshal(r.Parameters)
	if err != nil {
		return err
	}
	hist, _ := json.Marshal(r.CostHistory)
	vec, _ := json.Marshal(r.Vectorize)
	_, err = p.db.ExecContext(ctx, `INSERT INTO runs
		(id, workspace, instance, method, parameters, status, best_cost, cost_history, vectorize, error, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$11)`,
		r.ID, r.Workspace, r.Instance, r.Method, params, r.Status, r.BestCost, hist, vec, nullIfEmpty(r.Error), r.CreatedAt)
	return err
}

func (p *Postgres) UpdateRun(ctx context.Context, r RunRecord) error {
	hist, _ := json.Marshal(r.CostHistory)
	vec, _ := json.Marshal(r.Vectorize)
	res, err := p.db.ExecContext(ctx, `UPDATE runs SET status=$1, best_cost=$2, cost_history=$3, vectorize=$4, error=$5, updated_at=now() WHERE id=$6`,
		r.Status, r.BestCost, hist, vec, nullIfEmpty(r.Error), r.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) GetRun(ctx context.Context, workspace, id string) (RunRecord, error) {
	var r RunRecord
	var params, hist, vec []byte
	var errCol sql.NullString
	row := p.db.QueryRowContext(ctx, `SELECT id, workspace, instance, method, parameters, status, best_cost, cost_history, vectorize, error, created_at, updated_at
		FROM runs WHERE id=$1 AND workspace=$2`, id, workspace)
	if err := row.Scan(&r.ID, &r.Workspace, &r.Instance, &r.Method, &params, &r.Status, &r.BestCost, &hist, &vec, &errCol, &r.CreatedAt, &r.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, ErrNotFound
		}
		return RunRecord{}, err
	}
	r.Error = errCol.String
	_ = json.Unmarshal(params, &r.Parameters)
	_ = json.Unmarshal(hist, &r.CostHistory)
	_ = json.Unmarshal(vec, &r.Vectorize)
	return r, nil
}

func (p *Postgres) ListRuns(ctx context.Context, workspace, cursor string, limit int) ([]RunRecord, string, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var rows *sql.Rows
	var err error
	if cursor != "" {
		rows, err = p.db.QueryContext(ctx, `SELECT id, workspace, instance, method, parameters, status, best_cost, cost_history, vectorize, error, created_at, updated_at
			FROM runs WHERE workspace=$1 AND id > $2 ORDER BY id LIMIT $3`, workspace, cursor, limit)
	} else {
		rows, err = p.db.QueryContext(ctx, `SELECT id, workspace, instance, method, parameters, status, best_cost, cost_history, vectorize, error, created_at, updated_at
			FROM runs WHERE workspace=$1 ORDER BY id LIMIT $2`, workspace, limit)
	}
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()
	out := []RunRecord{}
	var next string
	for rows.Next() {
		var r RunRecord
		var params, hist, vec []byte
		var errCol sql.NullString
		if err := rows.Scan(&r.ID, &r.Workspace, &r.Instance, &r.Method, &params, &r.Status, &r.BestCost, &hist, &vec, &errCol, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, "", err
		}
		r.Error = errCol.String
		_ = json.Unmarshal(params, &r.Parameters)
		_ = json.Unmarshal(hist, &r.CostHistory)
		_ = json.Unmarshal(vec, &r.Vectorize)
		out = append(out, r)
		next = r.ID
	}
	if len(out) < limit {
		next = ""
	}
	return out, next, nil
}

func (p *Postgres) CreateSubscription(ctx context.Context, workspace, url, secret string, events []string) (Subscription, error) {
	s := Subscription{ID: uuid.New().String(), Workspace: workspace, URL: url, Secret: secret, Events: events}
	evJSON, _ := json.Marshal(events)
	_, err := p.db.ExecContext(ctx, `INSERT INTO subscriptions (id, workspace, url, secret, events) VALUES ($1,$2,$3,$4,$5)`,
		s.ID, workspace, url, nullIfEmpty(secret), evJSON)
	if err != nil {
		return Subscription{}, err
	}
	return s, nil
}

func (p *Postgres) GetSubscriptionsForEvent(ctx context.Context, workspace, eventType string) ([]Subscription, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, url, secret, events FROM subscriptions WHERE workspace=$1 AND events @> $2::jsonb`,
		workspace, fmt.Sprintf(`["%s"]`, eventType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Subscription{}
	for rows.Next() {
		var s Subscription
		var secret sql.NullString
		var evJSON []byte
		if err := rows.Scan(&s.ID, &s.URL, &secret, &evJSON); err != nil {
			return nil, err
		}
		s.Workspace = workspace
		s.Secret = secret.String
		_ = json.Unmarshal(evJSON, &s.Events)
		out = append(out, s)
	}
	return out, nil
}

func (p *Postgres) ListSubscriptions(ctx context.Context, workspace string) ([]Subscription, error) {
	return p.GetSubscriptionsForEvent(ctx, workspace, "")
}

func (p *Postgres) DeleteSubscription(ctx context.Context, workspace, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE workspace=$1 AND id=$2`, workspace, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) EnqueueWebhook(ctx context.Context, workspace, subscriptionID, eventType, url, secret string, payload []byte) (string, error) {
	id := uuid.New().String()
	dk := dedupKey(payload)
	_, err := p.db.ExecContext(ctx, `INSERT INTO webhook_deliveries
		(id, workspace, subscription_id, event_type, url, secret, payload, status, attempts, next_attempt_at, dedup_key)
		VALUES ($1,$2,$3,$4,$5,$6,$7,'pending',0,now(),$8)
		ON CONFLICT (workspace, event_type, url, dedup_key) DO NOTHING`,
		id, workspace, nullIfEmpty(subscriptionID), eventType, url, nullIfEmpty(secret), payload, dk)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (p *Postgres) FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, workspace, COALESCE(subscription_id,''), event_type, url, COALESCE(secret,''), payload, status, attempts
		FROM webhook_deliveries WHERE status IN ('pending','retry') AND next_attempt_at <= now() ORDER BY next_attempt_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []WebhookDelivery{}
	for rows.Next() {
		var d WebhookDelivery
		if err := rows.Scan(&d.ID, &d.Workspace, &d.SubscriptionID, &d.EventType, &d.URL, &d.Secret, &d.Payload, &d.Status, &d.Attempts); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (p *Postgres) MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode, latencyMs int) error {
	if success {
		_, err := p.db.ExecContext(ctx, `UPDATE webhook_deliveries SET status='delivered', attempts=attempts+1, response_code=$2, latency_ms=$3, updated_at=now() WHERE id=$1`,
			id, responseCode, latencyMs)
		return err
	}
	if nextAttemptAt == nil {
		t := time.Now().Add(time.Minute)
		nextAttemptAt = &t
	}
	_, err := p.db.ExecContext(ctx, `UPDATE webhook_deliveries SET status='retry', attempts=attempts+1, last_error=$2, next_attempt_at=$3, response_code=$4, latency_ms=$5, updated_at=now() WHERE id=$1`,
		id, nullIfEmpty(lastError), *nextAttemptAt, responseCode, latencyMs)
	return err
}

func (p *Postgres) FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode, latencyMs int) error {
	_, err := p.db.ExecContext(ctx, `UPDATE webhook_deliveries SET status='failed', last_error=$2, response_code=$3, latency_ms=$4, updated_at=now() WHERE id=$1`,
		id, nullIfEmpty(lastError), responseCode, latencyMs)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `INSERT INTO webhook_dlq (id, workspace, delivery_id, event_type, url, secret, payload, attempts, last_error)
		SELECT gen_random_uuid(), workspace, id, event_type, url, secret, payload, attempts+1, $2 FROM webhook_deliveries WHERE id=$1`,
		id, nullIfEmpty(lastError))
	return err
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func dedupKey(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
