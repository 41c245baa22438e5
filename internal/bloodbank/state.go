package bloodbank

import "fmt"

// SubmissionState tracks the submit control.
//
//	Idle -> Loading      submit started
//	Loading -> Submitted backend accepted
//	Loading -> Idle      backend failed; retry allowed
//
// Submitted is terminal for the session.
type SubmissionState int

const (
	StateIdle SubmissionState = iota
	StateLoading
	StateSubmitted
)

func (s SubmissionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON views.
func (s SubmissionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the names MarshalText produces.
func (s *SubmissionState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = StateIdle
	case "loading":
		*s = StateLoading
	case "submitted":
		*s = StateSubmitted
	default:
		return fmt.Errorf("unknown submission state %q", text)
	}
	return nil
}
