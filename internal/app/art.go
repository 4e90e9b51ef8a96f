package app

import (
	"time"

	"github.com/rkissoon/randomart/internal/domain"
)

// ArtService turns identifiers into walks and players over a fixed grid size.
type ArtService struct {
	bounds    domain.Bounds
	validator domain.TransitionValidator
}

// NewArtService creates a service for grids of the given size.
func NewArtService(bounds domain.Bounds, validator domain.TransitionValidator) (*ArtService, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	return &ArtService{bounds: bounds, validator: validator}, nil
}

// Bounds returns the grid size used for every walk.
func (s *ArtService) Bounds() domain.Bounds {
	return s.bounds
}

// Walk computes the walk for id.
func (s *ArtService) Walk(id string) (domain.Walk, error) {
	return domain.GenerateWalk(id, s.bounds)
}

// Player prepares an idle player for id, paced at interval.
func (s *ArtService) Player(id string, interval time.Duration) (*Player, error) {
	walk, err := s.Walk(id)
	if err != nil {
		return nil, err
	}
	return NewPlayer(walk, interval, s.validator), nil
}
