package journald

import "testing"

func TestClientOptions_Defaults(t *testing.T) {
	o := DefaultClientOptions()
	if o.SocketPath != DefaultSocketPath {
		t.Fatalf("expected SocketPath default to be %q, got: %q", DefaultSocketPath, o.SocketPath)
	}
}

func TestClientOptions_EmptySocketPathCoerced(t *testing.T) {
	o := &ClientOptions{}
	o.resolve()
	if o.SocketPath != DefaultSocketPath {
		t.Fatalf("expected an empty SocketPath to be coerced to %q, got: %q", DefaultSocketPath, o.SocketPath)
	}
}

func TestClientOptions_OverrideKept(t *testing.T) {
	o := &ClientOptions{SocketPath: "/tmp/alternate.sock"}
	o.resolve()
	if o.SocketPath != "/tmp/alternate.sock" {
		t.Fatalf("expected the override to be kept, got: %q", o.SocketPath)
	}
}
