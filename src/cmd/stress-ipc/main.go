package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"draw-on-screen/src/messages"
	"draw-on-screen/src/singleinstance"
)

type stressOptions struct {
	n        int
	command  string
	deadline time.Duration
}

type counts struct {
	ok, absent, failed int32
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts := &stressOptions{}
	cmd := newRootCmd(opts)
	return cmd.Execute()
}

func newRootCmd(opts *stressOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stress-ipc",
		Short:         "Stress test the resident's command port",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := messages.ParseCommand(opts.command)
			if err != nil {
				return err
			}
			res, elapsed := stress(opts.n, opts.deadline, func(ctx context.Context) error {
				_, err := singleinstance.NewClient().Send(ctx, c)
				return err
			})
			report(os.Stdout, opts.n, res, elapsed)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.n, "n", 50, "number of concurrent clients")
	cmd.Flags().StringVar(&opts.command, "command", "capture", "command each client sends (capture, save, clear)")
	cmd.Flags().DurationVar(&opts.deadline, "deadline", 5*time.Second, "per-client timeout")

	return cmd
}

// stress runs n clients at once and tallies their outcomes.
func stress(n int, deadline time.Duration, send func(context.Context) error) (counts, time.Duration) {
	var wg sync.WaitGroup
	var c counts

	start := time.Now()
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), deadline)
			defer cancel()
			err := send(ctx)
			switch {
			case err == nil:
				atomic.AddInt32(&c.ok, 1)
			case errors.Is(err, singleinstance.ErrNoResident):
				atomic.AddInt32(&c.absent, 1)
			default:
				atomic.AddInt32(&c.failed, 1)
			}
		}()
	}
	wg.Wait()
	return c, time.Since(start)
}

func report(w io.Writer, n int, res counts, elapsed time.Duration) {
	fmt.Fprintf(w, "launched=%d ok=%d no-resident=%d err=%d elapsed=%s\n", n, res.ok, res.absent, res.failed, elapsed)
}
