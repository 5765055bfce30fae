// umrun executes a .um binary. Traps exit 1 with a "fail:" diagnostic
// on standard error; a clean halt exits 0.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jriver03/um/isa"
	"github.com/jriver03/um/vm"
)

// usageError marks CLI misuse so main can exit 2 instead of 1.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }

func newCommand() *cobra.Command {
	var trace bool
	cmd := &cobra.Command{
		Use:   "umrun [--trace] <program.um>",
		Short: "Execute a .um binary",
		Long: `Execute a .um binary on the Universal Machine.

Environment (tracing):
  UM_TRACE_LIMIT=N  Stop printing trace once PC >= N`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageError{fmt.Errorf("usage: %s", cmd.UseLine())}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], trace)
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "print a per-instruction trace to stderr")
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{fmt.Errorf("%v\nusage: %s", err, cmd.UseLine())}
	})
	return cmd
}

func run(path string, trace bool) error {
	words, err := isa.LoadImage(path)
	if err != nil {
		return err
	}

	m := vm.New(words)
	if trace {
		m.Trace = vm.NewTracer(newTraceLogger(), traceLimit())
	}
	return m.Run()
}

// newTraceLogger builds an unbuffered stderr logger with bare lines:
// no timestamps, no level tags, just the trace text.
func newTraceLogger() *zap.Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	cfg.LevelKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(zapcore.AddSync(os.Stderr)),
		zapcore.InfoLevel,
	)
	return zap.New(core)
}

func traceLimit() uint32 {
	v := os.Getenv("UM_TRACE_LIMIT")
	if v == "" {
		return 0
	}
	n, err := strconv.ParseUint(v, 0, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

func main() {
	if err := newCommand().Execute(); err != nil {
		var trap vm.Trap
		if errors.As(err, &trap) {
			fmt.Fprintf(os.Stderr, "fail: %s\n", trap)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		var ue usageError
		if errors.As(err, &ue) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
