package domain

import "context"

// VisitRepository defines the persistence contract for visits.
type VisitRepository interface {
	Create(ctx context.Context, visit Visit) error
	GetByID(ctx context.Context, id string) (Visit, error)
	FirstVisits(ctx context.Context, filter GalleryFilter) ([]Visit, error)
}

// GalleryFilter pages through first visits, newest first.
type GalleryFilter struct {
	Limit  int
	Offset int
}

// VisitPublisher defines the contract for announcing recorded visits.
type VisitPublisher interface {
	Publish(ctx context.Context, visit Visit) error
}

// TransitionValidator checks playback state changes.
type TransitionValidator interface {
	Apply(ctx context.Context, current PlaybackStatus, event PlaybackEvent) (PlaybackStatus, error)
}
