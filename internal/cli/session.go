package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/mountainshoot/internal/api/request"
	"github.com/mcoot/mountainshoot/internal/model"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session commands",
	}

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionDeleteCmd())

	return cmd
}

func newSessionCreateCmd() *cobra.Command {
	var (
		winLimit   int
		turnLimit  time.Duration
		difficulty string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game session",
		Long: `Create a new two-player session. Unset flags take the server defaults.
A turn limit of 0 means turns are unlimited.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req request.CreateSessionRequest
			if cmd.Flags().Changed("win-limit") {
				req.WinLimit = &winLimit
			}
			if cmd.Flags().Changed("turn-limit") {
				ms := turnLimit.Milliseconds()
				req.TurnTimeLimitMS = &ms
			}
			req.Difficulty = difficulty

			result, err := client.CreateSession(cmd.Context(), req)
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(*result)
			return nil
		},
	}

	cmd.Flags().IntVar(&winLimit, "win-limit", 0, "Rounds needed to win the session (0 disables)")
	cmd.Flags().DurationVar(&turnLimit, "turn-limit", 0, "Turn time limit, e.g. 30s")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "Terrain difficulty: easy, medium, very_difficult")

	return cmd
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a session's current state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.GetSession(cmd.Context(), args[0])
			if err != nil {
				return sessionError(args[0], err)
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(*result)
			return nil
		},
	}
}

func newSessionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.DeleteSession(cmd.Context(), args[0]); err != nil {
				return sessionError(args[0], err)
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage(fmt.Sprintf("Deleted session %s", args[0]))
			return nil
		},
	}
}

// sessionError names the session when the server does not know it
func sessionError(id string, err error) error {
	if errors.Is(err, model.ErrSessionNotFound) {
		return fmt.Errorf("no session %s on the server: %w", id, err)
	}
	return err
}
