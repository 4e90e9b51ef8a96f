package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rkissoon/randomart/internal/adapter/fsm"
	"github.com/rkissoon/randomart/internal/adapter/svg"
	"github.com/rkissoon/randomart/internal/app"
	"github.com/rkissoon/randomart/internal/config"
	"github.com/rkissoon/randomart/internal/domain"
)

const (
	formatText = "text"
	formatSVG  = "svg"
)

func newRenderCmd() *cobra.Command {
	var (
		format string
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "render <id>",
		Short: "Print the randomart of an identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			art, err := newArtService(cmd, width, height)
			if err != nil {
				return err
			}
			walk, err := art.Walk(args[0])
			if err != nil {
				return err
			}
			return renderWalk(cmd.OutOrStdout(), walk, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text or svg")
	addBoundsFlags(cmd, &width, &height)
	return cmd
}

func renderWalk(w io.Writer, walk domain.Walk, format string) error {
	switch format {
	case formatText:
		_, err := fmt.Fprintln(w, walk.Render().String())
		return err
	case formatSVG:
		svg.RenderWalk(w, walk, svg.DefaultStyle)
		return nil
	default:
		return &domain.ValidationError{Field: "format", Reason: fmt.Sprintf("unknown format %q", format)}
	}
}

func addBoundsFlags(cmd *cobra.Command, width, height *int) {
	cmd.Flags().IntVar(width, "width", 0, "grid width (default RANDOMART_WIDTH or 17)")
	cmd.Flags().IntVar(height, "height", 0, "grid height (default RANDOMART_HEIGHT or 9)")
}

// newArtService applies flag overrides on top of the environment.
func newArtService(cmd *cobra.Command, width, height int) (*app.ArtService, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("width") {
		cfg.Bounds.Width = width
	}
	if cmd.Flags().Changed("height") {
		cfg.Bounds.Height = height
	}
	return app.NewArtService(cfg.Bounds, fsm.New())
}
