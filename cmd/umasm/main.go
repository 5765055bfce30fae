// umasm assembles UM source (.uma) into a big-endian .um binary.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jriver03/um/assembler"
)

// usageError marks CLI misuse so main can exit 2 instead of 1.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }

func newCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:           "umasm <input.uma>",
		Short:         "Assemble UM source into a .um binary",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageError{fmt.Errorf("usage: %s", cmd.UseLine())}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "a.um", "output file")
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{fmt.Errorf("%v\nusage: %s", err, cmd.UseLine())}
	})
	return cmd
}

func run(input, output string) error {
	src, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	asm := assembler.New(input)
	code, err := asm.Assemble(string(src))
	if err != nil {
		return err
	}
	return os.WriteFile(output, code, 0644)
}

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var ue usageError
		if errors.As(err, &ue) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
