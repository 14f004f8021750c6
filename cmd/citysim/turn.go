package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"

	"Civitas/internal/shared/logs"
	"Civitas/internal/shared/serverconfig"

	"github.com/spf13/cobra"
)

func newTurnCommand() *cobra.Command {
	var turns int
	cmd := &cobra.Command{
		Use:   "turn",
		Short: "离线推进若干回合，逐回合输出各城市结算结果（JSON）",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setup(nil); err != nil {
				return err
			}
			defer logs.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, serverconfig.Conf)
			if err != nil {
				return err
			}
			defer a.close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			for turn := 1; turn <= turns && ctx.Err() == nil; turn++ {
				if err := enc.Encode(a.runTurn(ctx, turn)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&turns, "turns", "n", 1, "推进的回合数")
	return cmd
}
