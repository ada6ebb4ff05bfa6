package journald

import (
	"errors"
	"fmt"
)

// ErrNotSupported is returned by NewClient on platforms without a local
// journal socket.
var ErrNotSupported = errors.New("journald is not supported on this platform")

// errSizeRejected marks a send that the kernel refused because the payload
// exceeds the atomic datagram limit. It stays internal: the Client consumes
// it to trigger the descriptor-passing fallback, and it is never surfaced.
var errSizeRejected = errors.New("datagram exceeds the atomic size limit")

// EncodingError reports a field that cannot be represented in the journal
// native wire format. It indicates a programming error in the caller; the
// Encoder emits no partial output for the offending field.
type EncodingError struct {
	Field  string
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot encode journal field %q: %s", e.Field, e.Reason)
}
