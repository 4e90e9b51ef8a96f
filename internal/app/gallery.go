package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rkissoon/randomart/internal/domain"
)

// RecordVisitInput is an interaction reported for a visitor.
type RecordVisitInput struct {
	VisitorID  string
	EventType  string
	Data       map[string]any
	OccurredAt time.Time
}

// GalleryService records visits and lays out one piece of art per visitor.
type GalleryService struct {
	repo      domain.VisitRepository
	publisher domain.VisitPublisher
	art       *ArtService
}

// NewGalleryService creates a service with the given adapters.
func NewGalleryService(repo domain.VisitRepository, publisher domain.VisitPublisher, art *ArtService) *GalleryService {
	return &GalleryService{
		repo:      repo,
		publisher: publisher,
		art:       art,
	}
}

// RecordVisit validates and persists a visit, then announces it.
func (s *GalleryService) RecordVisit(ctx context.Context, in RecordVisitInput) (domain.Visit, error) {
	if _, err := uuid.Parse(in.VisitorID); err != nil {
		return domain.Visit{}, &domain.ValidationError{Field: "visitor_id", Reason: "must be a UUID"}
	}
	if in.EventType == "" {
		return domain.Visit{}, &domain.ValidationError{Field: "event_type", Reason: "must not be empty"}
	}
	if in.OccurredAt.IsZero() {
		return domain.Visit{}, &domain.ValidationError{Field: "timestamp", Reason: "must be set"}
	}

	id, err := generateID()
	if err != nil {
		return domain.Visit{}, fmt.Errorf("generating visit id: %w", err)
	}

	visit := domain.NewVisit(id, in.VisitorID, in.EventType, in.Data, in.OccurredAt)

	if err := s.repo.Create(ctx, visit); err != nil {
		return domain.Visit{}, fmt.Errorf("creating visit: %w", err)
	}

	if err := s.publisher.Publish(ctx, visit); err != nil {
		return domain.Visit{}, fmt.Errorf("publishing visit: %w", err)
	}

	return visit, nil
}

// GetVisit returns a visit by its identifier.
func (s *GalleryService) GetVisit(ctx context.Context, id string) (domain.Visit, error) {
	return s.repo.GetByID(ctx, id)
}

// Gallery returns each visitor's first visit, newest first, with its art.
func (s *GalleryService) Gallery(ctx context.Context, filter domain.GalleryFilter) ([]domain.GalleryEntry, error) {
	visits, err := s.repo.FirstVisits(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing first visits: %w", err)
	}

	entries := make([]domain.GalleryEntry, 0, len(visits))
	for _, v := range visits {
		fp := Fingerprint(v.VisitorID)
		walk, err := s.art.Walk(fp)
		if err != nil {
			return nil, fmt.Errorf("walking fingerprint of visit %s: %w", v.ID, err)
		}
		entries = append(entries, domain.GalleryEntry{
			FirstVisit:  v,
			Fingerprint: fp,
			Walk:        walk,
		})
	}
	return entries, nil
}

// Fingerprint hides a visitor ID behind its SHA-256 digest, hex encoded.
func Fingerprint(visitorID string) string {
	sum := sha256.Sum256([]byte(visitorID))
	return hex.EncodeToString(sum[:])
}
