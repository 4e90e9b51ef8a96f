package app_test

import (
	"errors"
	"testing"
	"time"

	"github.com/rkissoon/randomart/internal/app"
	"github.com/rkissoon/randomart/internal/domain"
)

func TestNewArtService_InvalidBounds(t *testing.T) {
	_, err := app.NewArtService(domain.Bounds{Width: 0, Height: 0}, tableValidator{})
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestArtService_Walk(t *testing.T) {
	svc, err := app.NewArtService(domain.Bounds{Width: 9, Height: 5}, tableValidator{})
	if err != nil {
		t.Fatalf("NewArtService: %v", err)
	}

	w, err := svc.Walk(testID)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if w.Bounds != svc.Bounds() {
		t.Errorf("Bounds = %+v, want %+v", w.Bounds, svc.Bounds())
	}
	if w.Start != (domain.Position{X: 4, Y: 2}) {
		t.Errorf("Start = %+v, want (4,2)", w.Start)
	}
}

func TestArtService_PlayerInvalidIdentifier(t *testing.T) {
	svc, err := app.NewArtService(domain.DefaultBounds, tableValidator{})
	if err != nil {
		t.Fatalf("NewArtService: %v", err)
	}

	_, err = svc.Player("xyz", time.Millisecond)
	var idErr *domain.InvalidIdentifierError
	if !errors.As(err, &idErr) {
		t.Fatalf("expected InvalidIdentifierError, got %v", err)
	}
}
