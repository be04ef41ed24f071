// Package goroutine launches background work with panic containment.
package goroutine

import (
	"runtime/debug"

	"github.com/adbeam/adbeam/internal/shared/logger"
)

// SafeGo runs fn on a new goroutine. A panic inside fn is logged with its
// stack trace instead of taking the process down; connection pumps and other
// long-lived goroutines must not be able to crash the server.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			log.Error("recovered panic in goroutine",
				"name", name,
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}()
		fn()
	}()
}
