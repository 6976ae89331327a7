package classifier

import (
	"errors"
	"fmt"
)

// ErrNoModel is returned when no model endpoint or manifest is configured.
var ErrNoModel = errors.New("no image model configured")

// ErrModelUnavailable indicates the model server could not be reached or
// failed to answer.
type ErrModelUnavailable struct {
	StatusCode int // 0 when the request never completed
	Err        error
}

func (e *ErrModelUnavailable) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("image model unavailable (HTTP %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("image model unavailable: %v", e.Err)
}

func (e *ErrModelUnavailable) Unwrap() error { return e.Err }
