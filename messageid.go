package journald

import (
	"encoding/hex"
	"strconv"

	"github.com/google/uuid"
)

// messageIDNamespace is the fixed namespace under which derived MESSAGE_ID
// values are computed. Changing it would change every derived identifier, so
// it is part of the wire-visible contract.
var messageIDNamespace = uuid.MustParse("9a675cd6-4cb9-4d5f-9cd5-ab1b6d93cf0e")

// MessageID derives the journal MESSAGE_ID for a log event, enabling the
// daemon's catalog and deduplication features without requiring callers to
// register identifiers by hand.
//
// The identifier is an RFC 4122 name-based (SHA-1, version 5) UUID of the
// tuple {message template, logger name, priority}, serialized as
// NUL-separated bytes under a fixed namespace. The derivation is pure: equal
// tuples always produce the same identifier, in any process, on any
// platform. The result is the 128-bit value as 32 lower-case hex digits with
// no separators, the form journalctl expects.
func MessageID(template, logger string, priority Priority) string {
	name := make([]byte, 0, len(template)+len(logger)+4)
	name = append(name, template...)
	name = append(name, 0)
	name = append(name, logger...)
	name = append(name, 0)
	name = strconv.AppendInt(name, int64(priority), 10)

	id := uuid.NewSHA1(messageIDNamespace, name)
	return hex.EncodeToString(id[:])
}
