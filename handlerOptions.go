package journald

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// HandlerOptions are used to customize the journal slog.Handler.
//
// NB: The struct pointer options approach is used to be consistent with the
// approach used in the standard library for `HandlerOptions`.
type HandlerOptions struct {

	// Level reports the minimum record level that will be logged. The handler
	// discards records with lower levels. If Level is nil, the handler assumes
	// LevelInfo. The handler calls Level.Level for each record processed; to
	// adjust the minimum level dynamically, use a LevelVar.
	Level slog.Leveler

	// Identifier becomes the SYSLOG_IDENTIFIER field of every entry, the tag
	// journalctl filters on with `-t`. The default is the base name of the
	// running program.
	Identifier string

	// Facility becomes the SYSLOG_FACILITY field of every entry. The zero
	// value is coerced to FacilityLocal7; the kernel facility is not
	// selectable from userspace.
	Facility Facility

	// TimeFormat controls how time values inside log content get serialized.
	// This does not affect the entry's own timestamps, which the daemon
	// assigns on receipt. The default is time.RFC3339Nano.
	TimeFormat string

	// AddSource causes the handler to compute the source code position of
	// the log statement and add CODE_FILE, CODE_LINE, and CODE_FUNC fields
	// to the entry.
	AddSource bool

	// OmitMessageID disables the MESSAGE_ID field. By default every entry
	// carries a deterministic identifier derived from the message, the
	// Identifier, and the priority; see MessageID.
	OmitMessageID bool

	// Verbose controls whether debug logs are written to the internal logger.
	Verbose bool
}

const defaultTimeFormat = time.RFC3339Nano

// DefaultHandlerOptions returns *HandlerOptions with all default values.
func DefaultHandlerOptions() *HandlerOptions {
	return &HandlerOptions{
		Level:      slog.LevelInfo,
		Identifier: filepath.Base(os.Args[0]),
		Facility:   FacilityLocal7,
		TimeFormat: defaultTimeFormat,
	}
}

// resolve ensures that all options have valid values.
func (o *HandlerOptions) resolve() {

	// set default log level if not provided
	if o.Level == nil {
		o.Level = slog.LevelInfo
	}

	if len(o.Identifier) == 0 {
		o.Identifier = filepath.Base(os.Args[0])
	}

	// constrain to the valid syslog range
	if o.Facility <= FacilityKern || o.Facility > FacilityLocal7 {
		o.Facility = FacilityLocal7
	}

	if len(o.TimeFormat) == 0 {
		o.TimeFormat = defaultTimeFormat
	}
}
