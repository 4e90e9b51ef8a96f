package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rkissoon/randomart/internal/domain"
)

// DefaultInterval is the pause between two revealed steps.
const DefaultInterval = 100 * time.Millisecond

// Frame is the visible state of a playback after a tick.
type Frame struct {
	// Index is the number of steps revealed so far.
	Index  int
	Total  int
	Cursor domain.Position
	Grid   domain.Grid
	Done   bool
}

// Player reveals a precomputed walk one step per tick. At most one ticker
// runs per Player; starting a new playback stops the previous one first.
type Player struct {
	walk      domain.Walk
	interval  time.Duration
	validator domain.TransitionValidator

	// control serializes Play and Stop.
	control sync.Mutex

	mu      sync.Mutex
	status  domain.PlaybackStatus
	display domain.Grid
	next    int
	cursor  domain.Position
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewPlayer creates an idle player. A non-positive interval selects
// DefaultInterval.
func NewPlayer(walk domain.Walk, interval time.Duration, validator domain.TransitionValidator) *Player {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Player{
		walk:      walk,
		interval:  interval,
		validator: validator,
		status:    domain.PlaybackIdle,
		display:   domain.NewGrid(walk.Bounds),
		cursor:    walk.Start,
	}
}

// Interval returns the pause between ticks.
func (p *Player) Interval() time.Duration {
	return p.interval
}

// Play resets the display and starts revealing the walk from its first step.
// The returned channel receives one frame per tick and is closed when the walk
// is fully revealed, when Stop is called, or when ctx is done.
func (p *Player) Play(ctx context.Context) (<-chan Frame, error) {
	p.control.Lock()
	defer p.control.Unlock()

	p.stopLocked()

	p.mu.Lock()
	event := domain.PlaybackReplay
	if p.status == domain.PlaybackIdle {
		event = domain.PlaybackStart
	}
	status, err := p.validator.Apply(ctx, p.status, event)
	if err != nil {
		p.mu.Unlock()
		return nil, fmt.Errorf("starting playback: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	frames := make(chan Frame)
	done := make(chan struct{})

	p.status = status
	p.display = domain.NewGrid(p.walk.Bounds)
	p.next = 0
	p.cursor = p.walk.Start
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	go p.run(runCtx, frames, done)

	return frames, nil
}

// Stop halts a running playback and waits for its ticker to be released.
// The display keeps whatever was revealed so far.
func (p *Player) Stop() {
	p.control.Lock()
	defer p.control.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Status returns the lifecycle state of the player.
func (p *Player) Status() domain.PlaybackStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Snapshot returns the current frame without advancing.
func (p *Player) Snapshot() Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frameLocked()
}

func (p *Player) run(ctx context.Context, frames chan<- Frame, done chan<- struct{}) {
	defer close(done)
	defer close(frames)

	finished := false
	defer func() {
		event := domain.PlaybackStop
		if finished {
			event = domain.PlaybackFinish
		}
		p.transition(context.WithoutCancel(ctx), event)
	}()

	if len(p.walk.Steps) == 0 {
		finished = true
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		frame := p.advance()

		select {
		case frames <- frame:
		case <-ctx.Done():
			return
		}

		if frame.Done {
			finished = true
			return
		}
	}
}

// advance reveals the next step and returns the resulting frame.
func (p *Player) advance() Frame {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.next
	step := p.walk.Steps[i]
	p.display[step.Y][step.X] = p.walk.GlyphAt(i)
	p.cursor = step
	p.next++

	return p.frameLocked()
}

func (p *Player) transition(ctx context.Context, event domain.PlaybackEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	status, err := p.validator.Apply(ctx, p.status, event)
	if err != nil {
		// Fall back to a resting state that still accepts a replay.
		status = domain.PlaybackStopped
	}
	p.status = status
}

func (p *Player) frameLocked() Frame {
	return Frame{
		Index:  p.next,
		Total:  len(p.walk.Steps),
		Cursor: p.cursor,
		Grid:   p.display.Clone(),
		Done:   p.next == len(p.walk.Steps) && p.status != domain.PlaybackIdle,
	}
}
