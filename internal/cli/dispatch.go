package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/mountainshoot/internal/api/request"
	"github.com/mcoot/mountainshoot/internal/model"
)

func newDispatchCmd() *cobra.Command {
	var (
		player   int
		winner   int
		duration time.Duration
	)

	names := make([]string, 0, len(model.EventTypes))
	for _, t := range model.EventTypes {
		names = append(names, string(t))
	}

	cmd := &cobra.Command{
		Use:   "dispatch <id> <event>",
		Short: "Dispatch a game event to a session",
		Long: fmt.Sprintf(`Dispatch an event to a session and print the resulting state.

Events: %s

player_hit and record_hit take --player (the player struck), end_round and
declare_game_winner take --winner, set_turn_time_limit takes --duration.`,
			strings.Join(names, ", ")),
		Args:      cobra.ExactArgs(2),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.EventRequest{
				Type:       args[1],
				PlayerID:   player,
				WinnerID:   winner,
				DurationMS: duration.Milliseconds(),
			}

			result, err := client.Dispatch(cmd.Context(), args[0], req)
			switch {
			case errors.Is(err, model.ErrActionNotAllowed):
				return fmt.Errorf("%s is not allowed in the session's current state: %w", args[1], err)
			case errors.Is(err, model.ErrUnknownEvent):
				return fmt.Errorf("unknown event %q, expected one of %s: %w", args[1], strings.Join(names, ", "), err)
			case err != nil:
				return sessionError(args[0], err)
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(*result)
			return nil
		},
	}

	cmd.Flags().IntVar(&player, "player", 0, "Player id (1 or 2)")
	cmd.Flags().IntVar(&winner, "winner", 0, "Winner id (1 or 2)")
	cmd.Flags().DurationVar(&duration, "duration", 0, "Duration, e.g. 30s")

	return cmd
}
