//go:build !linux

package journald

// StderrIsJournalStream reports whether stderr is connected to the journal
// daemon's stream transport. It is always false off Linux.
func StderrIsJournalStream() bool {
	return false
}
