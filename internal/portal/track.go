package portal

import (
	"context"
	"strings"

	"github.com/digitalseva/portal/internal/model"
)

// Tracker is the public, unauthenticated tracking-code lookup.
type Tracker struct {
	apps ApplicationStore
}

// NewTracker constructs the workflow.
func NewTracker(apps ApplicationStore) *Tracker {
	return &Tracker{apps: apps}
}

// Track resolves a tracking code typed by a visitor. The match is exact after
// trimming surrounding whitespace.
func (t *Tracker) Track(ctx context.Context, code string) (*model.ApplicationSummary, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, &ValidationError{Message: "enter a tracking ID"}
	}
	return t.apps.ByCode(ctx, code)
}
