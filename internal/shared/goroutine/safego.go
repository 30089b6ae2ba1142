// Package goroutine launches background goroutines with panic recovery.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/SlnkoEnergy/Client-O-M/internal/shared/logger"
)

// SafeGo runs fn on a new goroutine. A panic inside fn is logged with its
// stack trace instead of taking down the process; name identifies which
// background worker died in the log line.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("goroutine panicked",
					"goroutine", name,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
}
