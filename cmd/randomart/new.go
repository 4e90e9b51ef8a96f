package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newNewCmd() *cobra.Command {
	var (
		format string
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a random UUID and print its randomart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			art, err := newArtService(cmd, width, height)
			if err != nil {
				return err
			}

			id := uuid.NewString()
			walk, err := art.Walk(id)
			if err != nil {
				return err
			}

			if format == formatText {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return renderWalk(cmd.OutOrStdout(), walk, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text or svg")
	addBoundsFlags(cmd, &width, &height)
	return cmd
}
