package journald

import "log/slog"

// Priority is the syslog-compatible severity of a journal entry, carried in
// the PRIORITY field on the daemon's 0-7 scale.
type Priority int

const (
	PriEmerg Priority = iota
	PriAlert
	PriCrit
	PriErr
	PriWarning
	PriNotice
	PriInfo
	PriDebug
)

// Facility is the syslog facility carried in the SYSLOG_FACILITY field.
type Facility int

const (
	FacilityKern Facility = iota
	FacilityUser
	FacilityMail
	FacilityDaemon
	FacilityAuth
	FacilitySyslog
	FacilityLPR
	FacilityNews
	FacilityUUCP
	FacilityClockDaemon
	FacilityAuthPriv
	FacilityFTP
	FacilityNTP
	FacilityAudit
	FacilityAlert
	FacilityCron
	FacilityLocal0
	FacilityLocal1
	FacilityLocal2
	FacilityLocal3
	FacilityLocal4
	FacilityLocal5
	FacilityLocal6
	FacilityLocal7
)

// PriorityFromLevel maps an slog.Level onto the journal's 0-7 priority scale.
// The four standard slog levels map to debug/info/warning/err; levels at
// LevelError+4 and above map to crit. Custom levels in between land on the
// nearest standard mapping.
func PriorityFromLevel(l slog.Level) Priority {
	switch {
	case l < slog.LevelInfo:
		return PriDebug
	case l < slog.LevelWarn:
		return PriInfo
	case l < slog.LevelError:
		return PriWarning
	case l < slog.LevelError+4:
		return PriErr
	default:
		return PriCrit
	}
}
