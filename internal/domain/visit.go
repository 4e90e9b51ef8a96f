package domain

import "time"

// Visit is a single tracked interaction of a site visitor.
type Visit struct {
	ID         string
	VisitorID  string
	EventType  string
	Data       map[string]any
	OccurredAt time.Time
	CreatedAt  time.Time
}

// NewVisit creates a visit stamped with the current time.
func NewVisit(id, visitorID, eventType string, data map[string]any, occurredAt time.Time) Visit {
	if data == nil {
		data = map[string]any{}
	}
	return Visit{
		ID:         id,
		VisitorID:  visitorID,
		EventType:  eventType,
		Data:       data,
		OccurredAt: occurredAt.UTC(),
		CreatedAt:  time.Now().UTC(),
	}
}

// GalleryEntry pairs a visitor's first visit with the art derived from it.
type GalleryEntry struct {
	FirstVisit  Visit
	Fingerprint string
	Walk        Walk
}
