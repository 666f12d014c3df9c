// Package debug provides diagnostics of a hanging test run.
package debug

import (
	"context"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/sirupsen/logrus"
)

// ExitInterrupted is the exit code after a second interrupt
const ExitInterrupted = 130

// DumpLoop writes goroutine stacks to out on interrupt. A second
// interrupt within two seconds exits the process with ExitInterrupted.
// The loop stops once ctx is done
func DumpLoop(ctx context.Context, out io.Writer, log logrus.FieldLogger) {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)
	runDumpLoop(ctx, interrupt, out, log, os.Exit)
}

func runDumpLoop(ctx context.Context, interrupt <-chan os.Signal, out io.Writer, log logrus.FieldLogger, exit func(int)) {
	if dumpLoop(ctx, interrupt, out, log) {
		log.Warn("Interrupted, exiting.")
		exit(ExitInterrupted)
	}
}

// dumpLoop returns true on a second interrupt and false once ctx is done
func dumpLoop(ctx context.Context, interrupt <-chan os.Signal, out io.Writer, log logrus.FieldLogger) bool {
	var interrupts byte
	var interruptTimeout <-chan time.Time
	for {
		select {
		case <-interrupt:
			interrupts++
			if interrupts > 1 {
				log.Info("Closing dump loop.")
				return true
			}
			log.Info("Dumping goroutine stacks. Press Ctrl-C again to quit.")
			if err := pprof.Lookup("goroutine").WriteTo(out, 1); err != nil {
				log.WithError(err).Warn("Failed to dump goroutine stacks.")
			}
			interruptTimeout = time.After(2 * time.Second)
		case <-interruptTimeout:
			interruptTimeout = nil
			interrupts = 0
		case <-ctx.Done():
			return false
		}
	}
}
