package result

import (
	"fmt"
	"time"
)

// Outcome is the class of a detected result screen.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFail
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFail:
		return "fail"
	default:
		return "unknown"
	}
}

// NotifyMode selects which outcomes produce a notification.
type NotifyMode int

const (
	ModeBoth NotifyMode = iota
	ModeSuccessOnly
	ModeFailOnly
)

// Modes lists every valid mode in menu order.
var Modes = []NotifyMode{ModeBoth, ModeSuccessOnly, ModeFailOnly}

func (m NotifyMode) String() string {
	switch m {
	case ModeBoth:
		return "both"
	case ModeSuccessOnly:
		return "success"
	case ModeFailOnly:
		return "fail"
	default:
		return "unknown"
	}
}

// Label is the human readable form used by the control window.
func (m NotifyMode) Label() string {
	switch m {
	case ModeSuccessOnly:
		return "Success only"
	case ModeFailOnly:
		return "Fail only"
	default:
		return "Success and fail"
	}
}

// Valid reports whether m is one of the declared modes.
func (m NotifyMode) Valid() bool { return m >= ModeBoth && m <= ModeFailOnly }

// Allows reports whether an outcome passes the mode filter.
func (m NotifyMode) Allows(o Outcome) bool {
	switch m {
	case ModeSuccessOnly:
		return o == OutcomeSuccess
	case ModeFailOnly:
		return o == OutcomeFail
	default:
		return true
	}
}

// ParseNotifyMode converts the config text form into a NotifyMode.
func ParseNotifyMode(s string) (NotifyMode, error) {
	for _, m := range Modes {
		if m.String() == s {
			return m, nil
		}
	}
	return ModeBoth, fmt.Errorf("result: unknown notify mode %q", s)
}

func (m NotifyMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("result: invalid notify mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *NotifyMode) UnmarshalText(b []byte) error {
	v, err := ParseNotifyMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Scores holds one tick's similarity against both templates.
type Scores struct {
	Success float64
	Fail    float64
}

// Best is the larger of the two scores.
func (s Scores) Best() float64 {
	if s.Success >= s.Fail {
		return s.Success
	}
	return s.Fail
}

// Outcome classifies the scores. Ties go to success.
func (s Scores) Outcome() Outcome {
	if s.Success >= s.Fail {
		return OutcomeSuccess
	}
	return OutcomeFail
}

// Event is emitted once per notified result screen.
type Event struct {
	Outcome Outcome
	Score   float64
	At      time.Time
}
