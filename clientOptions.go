package journald

// DefaultSocketPath is the journal daemon's well-known native-protocol
// socket.
const DefaultSocketPath = "/run/systemd/journal/socket"

// ClientOptions are used to customize the journal Client.
//
// NB: The struct pointer options approach is used to be consistent with the
// options used for the Handler, which uses the struct pointer approach to be
// consistent with the `HandlerOptions` used by log/slog.
type ClientOptions struct {

	// SocketPath overrides the target socket path. This exists for tests and
	// for containers that mount the journal socket somewhere non-standard.
	// The default is DefaultSocketPath.
	SocketPath string

	// Verbose controls whether debug logs are written to the internal logger.
	Verbose bool
}

// DefaultClientOptions returns *ClientOptions with all default values.
func DefaultClientOptions() *ClientOptions {
	return &ClientOptions{
		SocketPath: DefaultSocketPath,
	}
}

// resolve ensures that all options have valid values.
func (o *ClientOptions) resolve() {
	if len(o.SocketPath) == 0 {
		o.SocketPath = DefaultSocketPath
	}
}
