package cli

import (
	"context"
	"fmt"

	"github.com/pathakanu/remindbot/internal/dispatch"
	"github.com/spf13/cobra"
)

// NewDispatchCmd creates the dispatch command. With --once it runs a single
// cycle and prints the counts, which suits an external scheduler; otherwise
// it runs the loop until interrupted.
func NewDispatchCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Deliver due reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			rt, err := openRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			dispatcher := dispatch.New(rt.store, rt.notifier(), rt.log, rt.cfg.DispatchInterval,
				dispatch.WithLocation(rt.cfg.LocalTimezone))

			if once {
				result, err := dispatcher.RunCycle(ctx)
				if err != nil {
					return fmt.Errorf("dispatch cycle failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pending=%d due=%d delivered=%d unreachable=%d failed=%d\n",
					result.Pending, result.Due, result.Delivered, result.Unreachable, result.Failed)
				return nil
			}

			if err := dispatcher.Start(ctx); err != nil {
				return fmt.Errorf("failed to start dispatcher: %w", err)
			}
			waitForSignal(ctx)
			dispatcher.Stop()
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run a single cycle and exit")
	return cmd
}
