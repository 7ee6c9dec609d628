package logic

import (
	"errors"

	"github.com/WendelHime/napcheck/internal/shared/models"
)

type Status int

const (
	StatusOK Status = iota
	StatusLoginFailed
	StatusTargetNotFound
	StatusDownloadFailed
	// StatusAborted means the service broke the protocol. Nothing is
	// published for it.
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusLoginFailed:
		return "login failed"
	case StatusTargetNotFound:
		return "target file not found in users file list"
	case StatusDownloadFailed:
		return "download failed"
	default:
		return "aborted"
	}
}

// Result is the outcome of one check. Err carries the detail for logs and
// must never reach the public line.
type Result struct {
	Status Status
	Err    error
}

// PublicLine is the sanitized outcome, empty for aborted runs.
func (r Result) PublicLine() string {
	if r.Status == StatusAborted {
		return ""
	}
	return "PUBLIC: " + r.Status.String()
}

func (r Result) ExitCode() int {
	if r.Status == StatusOK {
		return 0
	}
	return 1
}

type phase int

const (
	phaseLogin phase = iota
	phaseBrowse
	phaseDownload
)

// classify maps a failure to the status published for its phase. Every
// download failure reads the same so the target learns nothing from it.
func classify(p phase, err error) Result {
	if p == phaseDownload {
		return Result{Status: StatusDownloadFailed, Err: err}
	}
	if errors.Is(err, models.ErrProtocolViolation) {
		return Result{Status: StatusAborted, Err: err}
	}
	if p == phaseLogin {
		return Result{Status: StatusLoginFailed, Err: err}
	}
	return Result{Status: StatusTargetNotFound, Err: err}
}
