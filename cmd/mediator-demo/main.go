// Command mediator-demo wires up a mediator and runs the three dispatch
// patterns against a toy audio domain: a fire-and-forget event, a
// single-response request, and a multi-response request.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/glimte/mediator-go/contracts"
	"github.com/glimte/mediator-go/mediator"
)

type TrackStarted struct {
	contracts.BaseMessage
	Title string
}

type GetVolumeRequest struct {
	contracts.BaseMessage
	contracts.SingleResponse[float64]
}

type ListListenersRequest struct {
	contracts.BaseMessage
	contracts.MultiResponse[string]
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		channel string
		timeout time.Duration
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "mediator-demo",
		Short: "Demonstrates publish, request and request-stream dispatch",
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))

			return run(cmd.Context(), logger, channel, timeout)
		},
	}

	cmd.Flags().StringVar(&channel, "channel", mediator.DefaultChannel, "routing channel for all dispatches")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Second, "aggregate bound for waiting dispatches")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func run(ctx context.Context, logger *slog.Logger, channel string, timeout time.Duration) error {
	med := mediator.New(mediator.WithLogger(logger))

	err := med.SubscribeFunc(channel, &TrackStarted{},
		func(_ context.Context, msg contracts.Message) (any, error) {
			logger.Info("track started", "title", msg.(*TrackStarted).Title)
			return nil, nil
		})
	if err != nil {
		return err
	}

	err = med.SubscribeFunc(channel, &GetVolumeRequest{},
		func(_ context.Context, _ contracts.Message) (any, error) {
			return 0.5, nil
		})
	if err != nil {
		return err
	}

	for _, name := range []string{"alice", "bob"} {
		err = med.SubscribeFunc(channel, &ListListenersRequest{},
			func(_ context.Context, _ contracts.Message) (any, error) {
				return name, nil
			})
		if err != nil {
			return err
		}
	}

	event := &TrackStarted{BaseMessage: contracts.NewBaseMessage("TrackStarted"), Title: "Blue in Green"}
	if err := med.Publish(ctx, channel, event, mediator.WithTimeout(timeout)); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	volume, err := mediator.Send[float64](ctx, med, channel,
		&GetVolumeRequest{BaseMessage: contracts.NewBaseMessage("GetVolumeRequest")},
		mediator.WithTimeout(timeout))
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	fmt.Printf("volume: %.1f\n", volume)

	listeners, err := mediator.Stream[string](ctx, med, channel,
		&ListListenersRequest{BaseMessage: contracts.NewBaseMessage("ListListenersRequest")},
		mediator.WithTimeout(timeout))
	if err != nil {
		return fmt.Errorf("request stream: %w", err)
	}
	for listener, err := range listeners {
		if err != nil {
			return fmt.Errorf("request stream: %w", err)
		}
		fmt.Printf("listener: %s\n", listener)
	}

	return nil
}
