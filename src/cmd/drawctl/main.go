// Command drawctl drives a running draw-on-screen resident over its
// loopback command port.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"draw-on-screen/src/config"
	"draw-on-screen/src/messages"
	"draw-on-screen/src/singleinstance"
)

// capture includes the settle wait, so the default leaves room for it.
const defaultTimeout = 10 * time.Second

type cliOptions struct {
	timeout time.Duration
	verbose bool
	envFile string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(normalizeLegacyArgs(os.Args), singleinstance.NewClient(), os.Stdout)
}

func runWithArgs(args []string, client singleinstance.Client, out io.Writer) error {
	if len(args) == 0 {
		args = []string{"drawctl"}
	}

	opts := &cliOptions{}
	cmd := newRootCmd(opts, client, out)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions, client singleinstance.Client, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "drawctl",
		Short:         "Send a command to the running draw-on-screen overlay",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Configure logging BEFORE any other operations.
			if opts.verbose {
				log.SetOutput(os.Stderr)
			} else {
				log.SetOutput(io.Discard)
			}
			// Load .env so SINGLEINSTANCE_PORT_* match the resident's.
			cfg, _ := config.LoadWithOptions(config.LoadOptions{EnvFileOverride: opts.envFile})
			if opts.verbose && cfg != nil {
				start, end := singleinstance.PortRange()
				fmt.Fprintf(os.Stderr, "[verbose] env=%q ports %d-%d\n", cfg.EnvPath, start, end)
			}
		},
	}

	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", defaultTimeout, "How long to wait for the resident")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Path to the .env file the resident uses")

	subs := []struct {
		cmd     messages.Command
		use     string
		short   string
		aliases []string
	}{
		{messages.CmdCapture, "capture", "Take a new snapshot under the overlay", nil},
		{messages.CmdSave, "save", "Save the overlay to a PNG", nil},
		{messages.CmdSaveClear, "clear", "Save, then discard the drawing", []string{"save-clear"}},
		{messages.CmdEscape, "escape", "Save; exits when sent twice within the double-tap window", nil},
		{messages.CmdQuit, "quit", "Stop the resident without saving", nil},
	}
	for _, s := range subs {
		s := s
		root.AddCommand(&cobra.Command{
			Use:     s.use,
			Short:   s.short,
			Aliases: s.aliases,
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return send(cmd.Context(), client, s.cmd, *opts, out)
			},
		})
	}
	return root
}

func send(ctx context.Context, client singleinstance.Client, cmd messages.Command, opts cliOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	start := time.Now()
	file, err := client.Send(ctx, cmd)
	if opts.verbose {
		fmt.Fprintf(os.Stderr, "[verbose] %s answered in %v\n", cmd, time.Since(start))
	}
	if errors.Is(err, singleinstance.ErrNoResident) {
		return fmt.Errorf("%w; start draw-on-screen first", err)
	}
	if err != nil {
		return fmt.Errorf("%s failed: %w", strings.ToLower(string(cmd)), err)
	}
	if file != "" {
		fmt.Fprintln(out, file)
	}
	return nil
}

// normalizeLegacyArgs maps single-dash long flags to cobra's double-dash form.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		switch {
		case arg == "-timeout":
			normalized[i] = "--timeout"
		case strings.HasPrefix(arg, "-timeout="):
			normalized[i] = "--timeout=" + arg[len("-timeout="):]
		case arg == "-verbose":
			normalized[i] = "--verbose"
		case strings.HasPrefix(arg, "-verbose="):
			normalized[i] = "--verbose=" + arg[len("-verbose="):]
		case arg == "-env-file":
			normalized[i] = "--env-file"
		case strings.HasPrefix(arg, "-env-file="):
			normalized[i] = "--env-file=" + arg[len("-env-file="):]
		}
	}

	return normalized
}
