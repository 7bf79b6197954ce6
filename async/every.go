// Package async includes helpers for scheduling periodic work on behalf of the
// node services.
package async

import (
	"context"
	"reflect"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "async")

// RunEvery runs f every period in its own goroutine until ctx is done.
// Ticks that arrive while f is still running are dropped.
func RunEvery(ctx context.Context, period time.Duration, f func()) {
	funcName := runtime.FuncForPC(reflect.ValueOf(f).Pointer()).Name()
	ticker := time.NewTicker(period)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				log.WithField("function", funcName).Trace("Running periodic function")
				f()
			case <-ctx.Done():
				log.WithField("function", funcName).Debug("Context is closed, exiting")
				return
			}
		}
	}()
}
