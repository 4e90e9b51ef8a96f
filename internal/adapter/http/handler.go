package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/rkissoon/randomart/internal/adapter/svg"
	"github.com/rkissoon/randomart/internal/app"
	"github.com/rkissoon/randomart/internal/domain"
)

// PositionResponse is a cell of the grid.
type PositionResponse struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func toPositionResponse(p domain.Position) PositionResponse {
	return PositionResponse{X: p.X, Y: p.Y}
}

// ArtResponse is the API representation of a fully revealed walk.
type ArtResponse struct {
	ID     string             `json:"id" doc:"Identifier the art was derived from"`
	Width  int                `json:"width"`
	Height int                `json:"height"`
	Rows   []string           `json:"rows" doc:"Rendered grid, one string per row"`
	Counts [][]int            `json:"counts" doc:"Visit count per cell, indexed [y][x]"`
	Start  PositionResponse   `json:"start"`
	End    *PositionResponse  `json:"end,omitempty" doc:"Last visited cell, absent for an empty walk"`
	Steps  []PositionResponse `json:"steps" doc:"Visited cells in order"`
}

func toArtResponse(id string, w domain.Walk) ArtResponse {
	steps := make([]PositionResponse, len(w.Steps))
	for i, s := range w.Steps {
		steps[i] = toPositionResponse(s)
	}

	resp := ArtResponse{
		ID:     id,
		Width:  w.Bounds.Width,
		Height: w.Bounds.Height,
		Rows:   rows(w.Render()),
		Counts: w.Counts,
		Start:  toPositionResponse(w.Start),
		Steps:  steps,
	}
	if end, ok := w.End(); ok {
		p := toPositionResponse(end)
		resp.End = &p
	}
	return resp
}

func rows(g domain.Grid) []string {
	out := make([]string, len(g))
	for y, row := range g {
		out[y] = strings.Join(row, "")
	}
	return out
}

// --- Get Art ---

type GetArtInput struct {
	ID string `path:"id" maxLength:"160" doc:"UUID or other hex identifier"`
}

type GetArtOutput struct {
	Body ArtResponse
}

// --- Get Art SVG ---

type GetArtSVGInput struct {
	ID string `path:"id" maxLength:"160" doc:"UUID or other hex identifier"`
}

type GetArtSVGOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// --- Playback ---

type PlaybackInput struct {
	ID    string `path:"id" maxLength:"160" doc:"UUID or other hex identifier"`
	Speed int    `query:"speed" default:"100" minimum:"10" maximum:"5000" doc:"Milliseconds between revealed steps"`
}

// Resolve rejects undecodable identifiers before the event stream opens.
func (i *PlaybackInput) Resolve(_ huma.Context) []error {
	if _, err := domain.DecodeIdentifier(i.ID); err != nil {
		return []error{&huma.ErrorDetail{
			Location: "path.id",
			Message:  err.Error(),
			Value:    i.ID,
		}}
	}
	return nil
}

// FrameEvent is sent after each revealed step.
type FrameEvent struct {
	Index  int              `json:"index" doc:"Number of steps revealed so far"`
	Total  int              `json:"total"`
	Cursor PositionResponse `json:"cursor"`
	Rows   []string         `json:"rows"`
}

// DoneEvent is sent once the whole walk has been revealed.
type DoneEvent struct {
	Total int `json:"total"`
}

// ErrorEvent is sent when a playback cannot start.
type ErrorEvent struct {
	Message string `json:"message"`
}

// Register adds all randomart API routes to the Huma API.
func Register(api huma.API, art *app.ArtService, gallery *app.GalleryService) {
	huma.Register(api, huma.Operation{
		OperationID: "get-art",
		Method:      http.MethodGet,
		Path:        "/api/v1/randomart/{id}",
		Summary:     "Get the randomart of an identifier",
		Tags:        []string{"Randomart"},
	}, func(_ context.Context, input *GetArtInput) (*GetArtOutput, error) {
		walk, err := art.Walk(input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetArtOutput{Body: toArtResponse(input.ID, walk)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-art-svg",
		Method:      http.MethodGet,
		Path:        "/api/v1/randomart/{id}/svg",
		Summary:     "Get the randomart of an identifier as SVG",
		Tags:        []string{"Randomart"},
	}, func(_ context.Context, input *GetArtSVGInput) (*GetArtSVGOutput, error) {
		walk, err := art.Walk(input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		var buf bytes.Buffer
		svg.RenderWalk(&buf, walk, svg.DefaultStyle)
		return &GetArtSVGOutput{ContentType: "image/svg+xml", Body: buf.Bytes()}, nil
	})

	sse.Register(api, huma.Operation{
		OperationID: "play-art",
		Method:      http.MethodGet,
		Path:        "/api/v1/randomart/{id}/playback",
		Summary:     "Stream the randomart being drawn step by step",
		Tags:        []string{"Randomart"},
	}, map[string]any{
		"frame": FrameEvent{},
		"done":  DoneEvent{},
		"error": ErrorEvent{},
	}, func(ctx context.Context, input *PlaybackInput, send sse.Sender) {
		player, err := art.Player(input.ID, time.Duration(input.Speed)*time.Millisecond)
		if err != nil {
			_ = send.Data(ErrorEvent{Message: err.Error()})
			return
		}
		defer player.Stop()

		frames, err := player.Play(ctx)
		if err != nil {
			_ = send.Data(ErrorEvent{Message: err.Error()})
			return
		}

		var last app.Frame
		for f := range frames {
			last = f
			if err := send.Data(FrameEvent{
				Index:  f.Index,
				Total:  f.Total,
				Cursor: toPositionResponse(f.Cursor),
				Rows:   rows(f.Grid),
			}); err != nil {
				return
			}
		}
		if last.Done {
			_ = send.Data(DoneEvent{Total: last.Total})
		}
	})

	registerVisits(api, gallery)
}

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(err error) error {
	if errors.Is(err, domain.ErrVisitNotFound) {
		return huma.Error404NotFound("visit not found")
	}

	var idErr *domain.InvalidIdentifierError
	if errors.As(err, &idErr) {
		return huma.Error422UnprocessableEntity(idErr.Error())
	}

	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		return huma.Error422UnprocessableEntity(valErr.Error())
	}

	var trErr *domain.TransitionError
	if errors.As(err, &trErr) {
		return huma.Error409Conflict(trErr.Error())
	}

	return huma.Error500InternalServerError("internal server error")
}
