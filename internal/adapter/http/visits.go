package http

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rkissoon/randomart/internal/app"
	"github.com/rkissoon/randomart/internal/domain"
)

// VisitResponse is the API representation of a recorded visit.
type VisitResponse struct {
	ID        string         `json:"id" doc:"Unique identifier"`
	VisitorID string         `json:"visitor_id" doc:"Visitor UUID"`
	EventType string         `json:"event_type"`
	Data      map[string]any `json:"data"`
	Timestamp string         `json:"timestamp" doc:"When the event happened (RFC 3339)"`
	CreatedAt string         `json:"created_at" doc:"When the event was recorded (RFC 3339)"`
}

func toVisitResponse(v domain.Visit) VisitResponse {
	return VisitResponse{
		ID:        v.ID,
		VisitorID: v.VisitorID,
		EventType: v.EventType,
		Data:      v.Data,
		Timestamp: v.OccurredAt.Format(time.RFC3339Nano),
		CreatedAt: v.CreatedAt.Format(time.RFC3339Nano),
	}
}

// GalleryEntryResponse is one visitor's art in the gallery. The visitor ID
// itself is not exposed.
type GalleryEntryResponse struct {
	Fingerprint string   `json:"fingerprint" doc:"SHA-256 of the visitor ID, hex encoded"`
	EventType   string   `json:"event_type" doc:"Type of the first recorded event"`
	FirstSeen   string   `json:"first_seen" doc:"Time of the first recorded event (RFC 3339)"`
	Rows        []string `json:"rows"`
}

// --- Record Visit ---

type RecordVisitInput struct {
	Body struct {
		VisitorID string         `json:"visitor_id" format:"uuid" doc:"Visitor UUID"`
		EventType string         `json:"event_type" minLength:"1" maxLength:"100" doc:"Kind of interaction"`
		Data      map[string]any `json:"data,omitempty" required:"false" doc:"Free-form event payload"`
		Timestamp time.Time      `json:"timestamp" doc:"When the event happened"`
	}
}

type RecordVisitOutput struct {
	Body VisitResponse
}

// --- Get Visit ---

type GetVisitInput struct {
	ID string `path:"id" doc:"Visit ID"`
}

type GetVisitOutput struct {
	Body VisitResponse
}

// --- Gallery ---

type GalleryInput struct {
	Limit  int `query:"limit" required:"false" default:"50" minimum:"1" maximum:"500" doc:"Max results"`
	Offset int `query:"offset" required:"false" default:"0" minimum:"0" doc:"Pagination offset"`
}

type GalleryOutput struct {
	Body []GalleryEntryResponse
}

func registerVisits(api huma.API, gallery *app.GalleryService) {
	huma.Register(api, huma.Operation{
		OperationID: "record-visit",
		Method:      http.MethodPost,
		Path:        "/api/v1/visits",
		Summary:     "Record a visitor interaction",
		Tags:        []string{"Visits"},
	}, func(ctx context.Context, input *RecordVisitInput) (*RecordVisitOutput, error) {
		visit, err := gallery.RecordVisit(ctx, app.RecordVisitInput{
			VisitorID:  input.Body.VisitorID,
			EventType:  input.Body.EventType,
			Data:       input.Body.Data,
			OccurredAt: input.Body.Timestamp,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &RecordVisitOutput{Body: toVisitResponse(visit)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-visit",
		Method:      http.MethodGet,
		Path:        "/api/v1/visits/{id}",
		Summary:     "Get a visit by ID",
		Tags:        []string{"Visits"},
	}, func(ctx context.Context, input *GetVisitInput) (*GetVisitOutput, error) {
		visit, err := gallery.GetVisit(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetVisitOutput{Body: toVisitResponse(visit)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-gallery",
		Method:      http.MethodGet,
		Path:        "/api/v1/gallery",
		Summary:     "List one piece of art per visitor, newest first",
		Tags:        []string{"Visits"},
	}, func(ctx context.Context, input *GalleryInput) (*GalleryOutput, error) {
		entries, err := gallery.Gallery(ctx, domain.GalleryFilter{
			Limit:  input.Limit,
			Offset: input.Offset,
		})
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]GalleryEntryResponse, len(entries))
		for i, e := range entries {
			resp[i] = GalleryEntryResponse{
				Fingerprint: e.Fingerprint,
				EventType:   e.FirstVisit.EventType,
				FirstSeen:   e.FirstVisit.OccurredAt.Format(time.RFC3339Nano),
				Rows:        rows(e.Walk.Render()),
			}
		}
		return &GalleryOutput{Body: resp}, nil
	})
}
