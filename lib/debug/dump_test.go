package debug

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/gravitational/hrmtest/lib/xlog"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestDumpLoopWritesStacks(t *testing.T) {
	defer goleak.VerifyNone(t)
	interrupt := make(chan os.Signal, 2)
	var out bytes.Buffer
	done := make(chan struct{})
	codes := make(chan int, 1)
	go func() {
		runDumpLoop(context.Background(), interrupt, &out, xlog.NewTestLogger(t), func(code int) { codes <- code })
		close(done)
	}()

	interrupt <- os.Interrupt
	interrupt <- os.Interrupt
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("dump loop did not stop on the second interrupt")
	}
	require.Contains(t, out.String(), "goroutine")
	require.Equal(t, ExitInterrupted, <-codes)
}

func TestDumpLoopStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	exited := false
	go func() {
		runDumpLoop(ctx, make(chan os.Signal), &bytes.Buffer{}, xlog.NewTestLogger(t), func(int) { exited = true })
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("dump loop did not stop with its context")
	}
	require.False(t, exited)
}
