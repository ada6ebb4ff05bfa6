package journald

import (
	"errors"
	"fmt"
	"os"
)

// transport abstracts the two delivery primitives of the native protocol, so
// the Client's fallback logic is independent of the OS socket layer.
type transport interface {
	// send makes one atomic datagram send. It returns an error wrapping
	// errSizeRejected if and only if the kernel refused the payload for its
	// size.
	send(p []byte) error

	// sendRegion stages p in an anonymous memory-backed region and passes
	// the region's descriptor to the daemon as ancillary data. The local
	// descriptor is closed before sendRegion returns, on every path.
	sendRegion(p []byte) error

	close() error
}

// Client delivers encoded journal entries to the journal daemon over its
// local datagram socket. The socket is opened once and reused; aside from
// that handle the Client holds no state across calls. Delivery is
// best-effort and at-most-once: there is no buffering, no queueing, and no
// retry.
//
// A Client is safe for concurrent use. Each delivery is a single atomic
// kernel call on the shared socket, and the daemon assigns entry ordering
// itself, so concurrent callers need no coordination.
type Client struct {
	opts *ClientOptions
	tr   transport
}

// NewClient creates a journal client and opens its socket immediately,
// returning an error if the socket cannot be created.
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = DefaultClientOptions()
	} else {
		opts.resolve()
	}

	tr, err := newSocketTransport(opts.SocketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal socket: %w", err)
	}

	c := &Client{opts: opts, tr: tr}
	c.debug("starting Client with the resolved ClientOptions: %+v", c.opts)
	return c, nil
}

// Send delivers one encoded entry. Ownership of the Encoder transfers to the
// Client for exactly one send attempt; it is released back to its pool
// whether or not delivery succeeds.
func (c *Client) Send(enc *Encoder) error {
	defer enc.Free()
	_, err := c.Write(enc.Bytes())
	return err
}

// Write delivers one encoded entry, making Client an io.Writer over whole
// datagrams. The entry is first attempted as a single datagram; a payload
// the kernel rejects for its size is re-sent through the descriptor-passing
// fallback. Any other failure is surfaced once, without retry, and the entry
// is dropped.
func (c *Client) Write(p []byte) (int, error) {
	err := c.tr.send(p)
	if err == nil {
		return len(p), nil
	}

	if !errors.Is(err, errSizeRejected) {
		return 0, fmt.Errorf("failed to send journal entry: %w", err)
	}

	c.debug("entry of %d bytes exceeds the datagram limit; passing a sealed memfd instead", len(p))
	if err := c.tr.sendRegion(p); err != nil {
		return 0, fmt.Errorf("failed to send oversized journal entry: %w", err)
	}
	return len(p), nil
}

// Close releases the client's socket. The Client must not be used after
// Close.
func (c *Client) Close() error {
	return c.tr.close()
}

func (c *Client) debug(format string, args ...any) {
	if !c.opts.Verbose {
		return
	}
	InternalLogger().Printf(format, args...)
}

// Enabled reports whether the journal daemon's well-known socket exists, so
// callers can decide whether installing this stack makes sense at all.
func Enabled() bool {
	return socketExists(DefaultSocketPath)
}

func socketExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode()&os.ModeSocket != 0
}
