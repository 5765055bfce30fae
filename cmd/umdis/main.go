// umdis disassembles a .um binary into a listing on standard output.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jriver03/um/disassembler"
	"github.com/jriver03/um/isa"
)

// usageError marks CLI misuse so main can exit 2 instead of 1.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }

func newCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "umdis <program.um>",
		Short:         "Disassemble a .um binary",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageError{fmt.Errorf("usage: %s", cmd.UseLine())}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := isa.LoadImage(args[0])
			if err != nil {
				return err
			}
			_, err = os.Stdout.WriteString(disassembler.DisassembleWords(words))
			return err
		},
	}
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{fmt.Errorf("%v\nusage: %s", err, cmd.UseLine())}
	})
	return cmd
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
