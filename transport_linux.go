//go:build linux

package journald

import (
	"errors"
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// socketTransport is the OS-backed transport. It owns one connectionless
// unixgram socket with a kernel-assigned (autobound) local address.
//
// Wire format and big-payload handling follow the native journal protocol:
// https://systemd.io/JOURNAL_NATIVE_PROTOCOL/
type socketTransport struct {
	conn *net.UnixConn
	addr *net.UnixAddr
}

func newSocketTransport(path string) (*socketTransport, error) {
	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Net: "unixgram"})
	if err != nil {
		return nil, err
	}
	return &socketTransport{
		conn: conn,
		addr: &net.UnixAddr{Name: path, Net: "unixgram"},
	}, nil
}

func (t *socketTransport) send(p []byte) error {
	_, _, err := t.conn.WriteMsgUnix(p, nil, t.addr)
	if err == nil {
		return nil
	}

	// the kernel reports an oversized AF_UNIX datagram as EMSGSIZE, or as
	// ENOBUFS when it cannot fit the socket buffer
	if errors.Is(err, unix.EMSGSIZE) || errors.Is(err, unix.ENOBUFS) {
		return fmt.Errorf("%w: %w", errSizeRejected, err)
	}
	return err
}

func (t *socketTransport) sendRegion(p []byte) error {
	fd, err := newMemfd(p)
	if err != nil {
		return err
	}

	// the kernel duplicates the in-flight descriptor, so the local copy is
	// closed as soon as the send call returns, success or not
	defer unix.Close(fd)

	oob := unix.UnixRights(fd)
	if _, _, err := t.conn.WriteMsgUnix(nil, oob, t.addr); err != nil {
		return fmt.Errorf("failed to pass entry descriptor: %w", err)
	}
	return nil
}

func (t *socketTransport) close() error {
	return t.conn.Close()
}

// newMemfd stages an oversized entry in an anonymous memory-backed file and
// seals it, so the daemon can map the region knowing the content can no
// longer change underneath it.
func newMemfd(p []byte) (int, error) {
	fd, err := unix.MemfdCreate("journald-entry", unix.MFD_ALLOW_SEALING|unix.MFD_CLOEXEC)
	if err != nil {
		return -1, fmt.Errorf("memfd_create: %w", err)
	}

	for off := 0; off < len(p); {
		n, err := unix.Write(fd, p[off:])
		if err != nil {
			unix.Close(fd)
			return -1, fmt.Errorf("failed to write entry to memfd: %w", err)
		}
		off += n
	}

	seals := unix.F_SEAL_SHRINK | unix.F_SEAL_GROW | unix.F_SEAL_WRITE | unix.F_SEAL_SEAL
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_ADD_SEALS, seals); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("failed to seal memfd: %w", err)
	}

	return fd, nil
}
