package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/DoyleJ11/hoops-draft-client/internal/reconcile"
	"github.com/DoyleJ11/hoops-draft-client/internal/spin"
)

func newWatchCmd(a *app) *cobra.Command {
	var jsonOutput, frames bool

	cmd := &cobra.Command{
		Use:   "watch <draft>",
		Short: "Join a draft and stream its state",
		Long: `Join a draft by public id or numeric id and print every state change.

A guest seat is claimed automatically when it is free. Spin frames are
printed while a roll is in progress when --frames is set.

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			d, err := a.deps()
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, d.Close()) }()

			s, err := a.openSession(ctx, d, args[0])
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, s.Close()) }()

			return watch(ctx, cmd.OutOrStdout(), s.Views(), s.Frames(), jsonOutput, frames)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output views as JSON lines")
	cmd.Flags().BoolVar(&frames, "frames", false, "Print spin frames")

	return cmd
}

func watch(ctx context.Context, out io.Writer, views <-chan reconcile.View, frames <-chan spin.Frame, jsonOutput, showFrames bool) error {
	enc := json.NewEncoder(out)
	if !showFrames {
		frames = nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case v := <-views:
			if jsonOutput {
				if err := enc.Encode(v); err != nil {
					return err
				}
				continue
			}
			fmt.Fprintln(out, describeView(v))
		case f := <-frames:
			if jsonOutput {
				if err := enc.Encode(f); err != nil {
					return err
				}
				continue
			}
			fmt.Fprintln(out, describeFrame(f))
		}
	}
}
