//go:build linux

package journald

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// StderrIsJournalStream reports whether this process's stderr is connected
// to the journal daemon's stream transport. Supervised services are started
// with a JOURNAL_STREAM variable holding the "device:inode" of that stream;
// the check compares it against an fstat of stderr, so it stays correct even
// when the variable is inherited by a child whose stderr was redirected.
func StderrIsJournalStream() bool {
	stream := os.Getenv("JOURNAL_STREAM")
	if stream == "" {
		return false
	}

	dev, ino, ok := strings.Cut(stream, ":")
	if !ok {
		return false
	}

	var stat unix.Stat_t
	if err := unix.Fstat(int(os.Stderr.Fd()), &stat); err != nil {
		return false
	}

	return dev == strconv.FormatUint(uint64(stat.Dev), 10) &&
		ino == strconv.FormatUint(uint64(stat.Ino), 10)
}
