package plan

import "fmt"

// GenerationError is returned when no usable plan could be produced. It ends
// the session: nothing is retried or repaired locally. Raw carries the text
// the service returned, when there was one.
type GenerationError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("plan generation: %s: %v", e.Reason, e.Err)
	}
	return "plan generation: " + e.Reason
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
