package portal

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a profile, service, or application does not
// exist. Store implementations return it so callers can compare with
// errors.Is.
var ErrNotFound = errors.New("not found")

// ValidationError reports user-fixable input problems, such as required
// documents without an uploaded file.
type ValidationError struct {
	// Missing holds required-document labels with no file, in catalog order.
	Missing []string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("please upload all required documents: %s", strings.Join(e.Missing, ", "))
	}
	return e.Message
}
