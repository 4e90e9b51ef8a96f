package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rkissoon/randomart/internal/adapter/terminal"
	"github.com/rkissoon/randomart/internal/config"
	"github.com/rkissoon/randomart/internal/domain"
)

func newPlayCmd() *cobra.Command {
	var (
		speed  int
		width  int
		height int
		exit   bool
	)

	cmd := &cobra.Command{
		Use:   "play <id>",
		Short: "Animate the randomart of an identifier in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			interval := time.Duration(speed) * time.Millisecond
			if !cmd.Flags().Changed("speed") {
				cfg, err := config.FromEnv()
				if err != nil {
					return err
				}
				interval = cfg.Interval
			} else if speed <= 0 {
				return &domain.ValidationError{Field: "speed", Reason: "must be positive"}
			}

			art, err := newArtService(cmd, width, height)
			if err != nil {
				return err
			}
			player, err := art.Player(args[0], interval)
			if err != nil {
				return err
			}
			defer player.Stop()

			model := terminal.New(cmd.Context(), args[0], player, exit)
			final, err := tea.NewProgram(model,
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			).Run()
			if err != nil {
				return err
			}
			return final.(terminal.Model).Err()
		},
	}

	cmd.Flags().IntVarP(&speed, "speed", "s", 100, "milliseconds between steps (default RANDOMART_SPEED or 100)")
	cmd.Flags().BoolVar(&exit, "exit", false, "quit once the art is complete")
	addBoundsFlags(cmd, &width, &height)
	return cmd
}
