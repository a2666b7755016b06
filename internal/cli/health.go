package cli

import (
	"time"

	"github.com/spf13/cobra"
)

// HealthReport is what the health command prints
type HealthReport struct {
	Status  string        `json:"status"`
	Server  string        `json:"server"`
	Latency time.Duration `json:"latency_ns"`
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the game server is reachable",
		Long:  `Check the configured game server answers and report the round trip time.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			result, err := client.Health(cmd.Context())
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(HealthReport{
				Status:  result.Status,
				Server:  cfg.ServerURL,
				Latency: time.Since(start).Round(time.Millisecond),
			})
			return nil
		},
	}
}
