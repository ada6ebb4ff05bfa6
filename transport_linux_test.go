//go:build linux

package journald

import (
	"bytes"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"
)

// newTestJournald binds a unixgram socket in a temp directory, standing in
// for the daemon's well-known socket.
func newTestJournald(t *testing.T) (*net.UnixConn, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.sock")
	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: path, Net: "unixgram"})
	if err != nil {
		t.Fatalf("failed to bind test journal socket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, path
}

func TestTransport_DeliversDatagram(t *testing.T) {
	daemon, path := newTestJournald(t)

	c, err := NewClient(&ClientOptions{SocketPath: path})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	defer c.Close()

	enc := NewEncoder(defaultNewBufferCap)
	if err := enc.AppendField("MESSAGE", "Test message"); err != nil {
		t.Fatal(err)
	}
	if err := enc.AppendInt("PRIORITY", int64(PriInfo)); err != nil {
		t.Fatal(err)
	}

	if err := c.Send(enc); err != nil {
		t.Fatalf("unexpected delivery error: %v", err)
	}

	buf := make([]byte, 64<<10)
	n, _, _, _, err := daemon.ReadMsgUnix(buf, nil)
	if err != nil {
		t.Fatalf("failed to receive datagram: %v", err)
	}

	got := fieldMap(decodeEntry(t, buf[:n]))
	if got["MESSAGE"] != "Test message" {
		t.Fatalf("expected MESSAGE to round-trip, got %q", got["MESSAGE"])
	}
	if got["PRIORITY"] != "6" {
		t.Fatalf("expected PRIORITY=6, got %q", got["PRIORITY"])
	}
}

func TestTransport_OversizedEntryPassesDescriptor(t *testing.T) {
	daemon, path := newTestJournald(t)

	c, err := NewClient(&ClientOptions{SocketPath: path})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	defer c.Close()

	// well past any plausible wmem_default, so the kernel rejects the
	// datagram and the memfd path engages
	payload := bytes.Repeat([]byte("0123456789abcdef"), 1<<18) // 4MiB

	enc := NewEncoder(defaultNewBufferCap)
	if err := enc.AppendBinaryField("PAYLOAD", payload); err != nil {
		t.Fatal(err)
	}
	want := append([]byte(nil), enc.Bytes()...)

	if err := c.Send(enc); err != nil {
		t.Fatalf("unexpected delivery error: %v", err)
	}

	buf := make([]byte, 16)
	oob := make([]byte, 128)
	n, oobn, _, _, err := daemon.ReadMsgUnix(buf, oob)
	if err != nil {
		t.Fatalf("failed to receive descriptor datagram: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected an empty main payload, got %d bytes", n)
	}

	scms, err := unix.ParseSocketControlMessage(oob[:oobn])
	if err != nil {
		t.Fatalf("failed to parse ancillary data: %v", err)
	}
	if len(scms) != 1 {
		t.Fatalf("expected one control message, got %d", len(scms))
	}
	fds, err := unix.ParseUnixRights(&scms[0])
	if err != nil {
		t.Fatalf("expected SCM_RIGHTS ancillary data: %v", err)
	}
	if len(fds) != 1 {
		t.Fatalf("expected exactly one descriptor, got %d", len(fds))
	}

	f := os.NewFile(uintptr(fds[0]), "journald-entry")
	defer f.Close()

	// the passed descriptor shares the writer's file offset; the daemon
	// mmaps the region, the test seeks instead
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	got, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("failed to read the passed region: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("region content differs from the encoded entry: %d bytes vs %d bytes", len(got), len(want))
	}
}

func TestNewMemfd_ContentAndSeals(t *testing.T) {
	want := []byte("MESSAGE\nhello memfd")

	fd, err := newMemfd(want)
	if err != nil {
		t.Fatal(err)
	}
	defer unix.Close(fd)

	got := make([]byte, len(want)+1)
	n, err := unix.Pread(fd, got, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got[:n], want) {
		t.Fatalf("expected %q, got %q", want, got[:n])
	}

	seals, err := unix.FcntlInt(uintptr(fd), unix.F_GET_SEALS, 0)
	if err != nil {
		t.Fatal(err)
	}
	wantSeals := unix.F_SEAL_SHRINK | unix.F_SEAL_GROW | unix.F_SEAL_WRITE | unix.F_SEAL_SEAL
	if seals != wantSeals {
		t.Fatalf("expected seals %#x, got %#x", wantSeals, seals)
	}

	// the region must be immutable once handed over
	if _, err := unix.Pwrite(fd, []byte("x"), 0); err == nil {
		t.Fatal("expected writes to the sealed region to fail")
	}
}

func TestTransport_SendWithoutDaemonFails(t *testing.T) {
	// socket path exists in no daemon's namespace
	path := filepath.Join(t.TempDir(), "missing.sock")

	c, err := NewClient(&ClientOptions{SocketPath: path})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	defer c.Close()

	if err := c.Send(encodedEntry(t, [2]string{"MESSAGE", "hello"})); err == nil {
		t.Fatal("expected a delivery error when the daemon socket is absent")
	}
}

func TestSocketExists(t *testing.T) {
	_, path := newTestJournald(t)
	if !socketExists(path) {
		t.Fatal("expected a bound unixgram socket to be detected")
	}

	file := filepath.Join(t.TempDir(), "plain")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if socketExists(file) {
		t.Fatal("expected a regular file not to count as the journal socket")
	}
	if socketExists(filepath.Join(t.TempDir(), "missing")) {
		t.Fatal("expected a missing path not to count as the journal socket")
	}
}
