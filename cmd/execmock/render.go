package main

import (
	"fmt"

	"github.com/ruffel/execmock"
	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	var res execmock.MockResult

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the shell command a mock result is rendered into",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := res.Validate(); err != nil {
				return err
			}

			rendered := execmock.Render(res, targetOS(cmd))
			_, err := fmt.Fprintln(cmd.OutOrStdout(), rendered.String())

			return err
		},
	}

	cmd.Flags().StringVar(&res.Stdout, "stdout", "", "programmed stdout")
	cmd.Flags().StringVar(&res.Stderr, "stderr", "", "programmed stderr")
	cmd.Flags().IntVar(&res.Code, "code", 0, "programmed exit code (0-255)")

	return cmd
}

func targetOS(cmd *cobra.Command) execmock.TargetOS {
	name, _ := cmd.Flags().GetString("os")
	if name == "" {
		return execmock.DetectLocalOS()
	}

	return execmock.ParseTargetOS(name)
}
