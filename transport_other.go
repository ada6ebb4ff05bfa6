//go:build !linux

package journald

// The journal daemon and its native socket only exist on Linux; everywhere
// else the constructor reports ErrNotSupported and callers should fall back
// to another slog.Handler.
type socketTransport struct{}

func newSocketTransport(path string) (*socketTransport, error) {
	return nil, ErrNotSupported
}

func (t *socketTransport) send(p []byte) error       { return ErrNotSupported }
func (t *socketTransport) sendRegion(p []byte) error { return ErrNotSupported }
func (t *socketTransport) close() error              { return ErrNotSupported }
