package river

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/riverqueue/river"

	"github.com/rkissoon/randomart/internal/domain"
)

// Compile-time check: Publisher implements domain.VisitPublisher.
var _ domain.VisitPublisher = (*Publisher)(nil)

// VisitJobArgs carries a snapshot of a recorded visit. River serializes it as
// JSON into its job table, so the worker never needs to query the database.
type VisitJobArgs struct {
	VisitID    string    `json:"visit_id"`
	VisitorID  string    `json:"visitor_id"`
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (VisitJobArgs) Kind() string { return "visit.recorded" }

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.VisitPublisher by enqueuing River jobs.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish enqueues a recorded visit as an async job in River.
func (p *Publisher) Publish(ctx context.Context, visit domain.Visit) error {
	_, err := p.client.Insert(ctx, VisitJobArgs{
		VisitID:    visit.ID,
		VisitorID:  visit.VisitorID,
		EventType:  visit.EventType,
		OccurredAt: visit.OccurredAt,
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing visit job: %w", err)
	}
	return nil
}
