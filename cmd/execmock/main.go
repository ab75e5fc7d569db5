// Command execmock inspects mock results outside of a test: it renders the
// shell command a result becomes and replays fixture files through a Runner.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs the CLI with the provided args and output writers.
func execute(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	return cmd.Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "execmock",
		Short:         "Render and replay programmed command results",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("os", "", "target OS shell dialect (default: host OS)")

	root.AddCommand(newRenderCmd(), newPlayCmd())

	return root
}
