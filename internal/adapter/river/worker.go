package river

import (
	"context"
	"fmt"

	"github.com/riverqueue/river"
	"go.uber.org/zap"

	"github.com/rkissoon/randomart/internal/app"
)

// VisitWorker processes recorded visits from the River queue. It walks the
// visitor's fingerprint so the art that will appear in the gallery is
// logged next to the visit.
type VisitWorker struct {
	river.WorkerDefaults[VisitJobArgs]

	art    *app.ArtService
	logger *zap.Logger
}

// NewVisitWorker creates a worker that walks fingerprints with art.
func NewVisitWorker(art *app.ArtService, logger *zap.Logger) *VisitWorker {
	return &VisitWorker{art: art, logger: logger}
}

// Work processes a single visit job.
func (w *VisitWorker) Work(ctx context.Context, job *river.Job[VisitJobArgs]) error {
	fp := app.Fingerprint(job.Args.VisitorID)

	walk, err := w.art.Walk(fp)
	if err != nil {
		return fmt.Errorf("walking fingerprint: %w", err)
	}
	end, _ := walk.End()

	w.logger.Info("visit recorded",
		zap.String("visit_id", job.Args.VisitID),
		zap.String("event_type", job.Args.EventType),
		zap.Time("occurred_at", job.Args.OccurredAt),
		zap.String("fingerprint", fp),
		zap.Int("end_x", end.X),
		zap.Int("end_y", end.Y),
		zap.Int64("job_id", job.ID),
		zap.Int("attempt", job.Attempt),
	)
	return nil
}
