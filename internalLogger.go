package journald

import (
	"log"
	"os"
	"sync/atomic"
)

var internalLogger atomic.Value

func init() {
	internalLogger.Store(log.New(os.Stderr, "[journald] ", log.LstdFlags))
}

// InternalLogger returns the Logger used to write out internal logs, where
// logs get written when something goes wrong in the logging stack itself,
// including entries that could not be delivered to the journal daemon.
func InternalLogger() *log.Logger { return internalLogger.Load().(*log.Logger) }

// SetInternalLogger makes l the internal logger. Delivery and encoding
// failures inside the stack are reported through it rather than raised to
// the application's normal logging path.
func SetInternalLogger(l *log.Logger) {
	internalLogger.Store(l)
}
