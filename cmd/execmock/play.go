package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ruffel/execmock"
	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	var (
		call    string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "play FIXTURE",
		Short: "Replay every result of a YAML fixture through a mocked call",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := execmock.ParseCommand(call)
			if err != nil {
				return err
			}

			q := execmock.NewQueue()
			if err := q.LoadFile(args[0]); err != nil {
				return err
			}

			opts := []execmock.RunnerOption{execmock.WithTargetOS(targetOS(cmd))}
			if verbose {
				logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
				opts = append(opts, execmock.WithLogger(logger))
			}

			r := execmock.New(q, opts...)
			out := cmd.OutOrStdout()

			for i := 0; q.Len() > 0; i++ {
				res, err := r.Run(cmd.Context(), parsed.Cmd, parsed.Args, execmock.WithReject(false))
				if err != nil {
					return err
				}

				_, _ = fmt.Fprintf(out, "#%d %s: stdout=%q stderr=%q code=%d failed=%t\n",
					i, res.Cmd, res.Stdout, res.Stderr, res.ExitCode, res.Failed)

				var spawnErr *execmock.SpawnError
				if errors.As(res.Err, &spawnErr) {
					return spawnErr
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&call, "call", "true", "command line the results are played against")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log each invocation to stderr")

	return cmd
}
