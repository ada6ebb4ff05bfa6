/*
Package journald provides a full native-protocol logging stack for the
systemd journal in Go, including:

  - `journald.Handler` - serializes structured logs (implements `slog.Handler`)
  - `journald.Client` - manages the datagram socket and delivery to journald
  - `journald.Encoder` - provides a common encoder/buffer, bridging the
    `Handler` and `Client`

Entries are written directly over the journal's local datagram socket using
the native wire format, rather than forwarded as flat syslog text, so every
structured field survives with its type intact, including binary values.

The stack is connectionless and best-effort by design: each log event is one
encode and one atomic send, with no buffering, queueing, or retries. When an
entry exceeds the socket's atomic datagram limit, the Client transparently
falls back to the protocol's big-payload path, staging the entry in a sealed
memfd and passing the descriptor to the daemon as ancillary data.

Protocol reference: https://systemd.io/JOURNAL_NATIVE_PROTOCOL/
*/
package journald
