package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/mountainshoot/internal/api/request"
	"github.com/mcoot/mountainshoot/internal/model"
)

func newShootCmd() *cobra.Command {
	var radius float64

	cmd := &cobra.Command{
		Use:   "shoot <id> <x> <y>",
		Short: "Resolve where a projectile landed",
		Long: `Check a projectile position against both players, the opponent first.
A hit ends the round in favour of the player who was not struck.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid x: %w", err)
			}
			y, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid y: %w", err)
			}

			req := request.ShotRequest{X: x, Y: y, HitboxRadius: radius}

			result, err := client.Shoot(cmd.Context(), args[0], req)
			switch {
			case errors.Is(err, model.ErrActionNotAllowed):
				return fmt.Errorf("shots only resolve while a round is in play: %w", err)
			case err != nil:
				return sessionError(args[0], err)
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(*result)
			return nil
		},
	}

	cmd.Flags().Float64Var(&radius, "radius", 20, "Hitbox radius")

	return cmd
}
