package model

import (
	"fmt"
	"strings"
)

// Status is a traffic-light rating. The zero value is StatusUnknown, which
// means "no signal detected" and is never stored in a record; detectors
// return it and callers skip the element. The remaining three values form
// a total severity order GREEN < YELLOW < RED.
type Status int8

const (
	StatusUnknown Status = iota
	StatusGreen
	StatusYellow
	StatusRed
)

// Severity returns the ordinal rank used for worst-wins reduction.
// GREEN=1, YELLOW=2, RED=3; StatusUnknown sorts below everything.
func (s Status) Severity() int {
	return int(s)
}

func (s Status) String() string {
	switch s {
	case StatusGreen:
		return "GREEN"
	case StatusYellow:
		return "YELLOW"
	case StatusRed:
		return "RED"
	default:
		return "NA"
	}
}

// Symbol returns the display glyph for the status, derived 1:1 from the
// status name. Purely presentational.
func (s Status) Symbol() string {
	switch s {
	case StatusGreen:
		return "🟢"
	case StatusYellow:
		return "🟡"
	case StatusRed:
		return "🔴"
	default:
		return ""
	}
}

// ParseStatus converts a stored status name back into a Status.
func ParseStatus(name string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "GREEN":
		return StatusGreen, nil
	case "YELLOW":
		return StatusYellow, nil
	case "RED":
		return StatusRed, nil
	default:
		return StatusUnknown, fmt.Errorf("unknown status %q", name)
	}
}

// Worse returns the higher-severity of the two statuses.
func Worse(a, b Status) Status {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}
