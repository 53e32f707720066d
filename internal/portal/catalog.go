package portal

import (
	"context"
	"strings"

	"github.com/digitalseva/portal/internal/model"
)

// Catalog is the admin-managed list of offered services.
type Catalog struct {
	services ServiceStore
}

// NewCatalog constructs the workflow.
func NewCatalog(services ServiceStore) *Catalog {
	return &Catalog{services: services}
}

// List returns the catalog in creation order.
func (c *Catalog) List(ctx context.Context) ([]model.Service, error) {
	return c.services.List(ctx)
}

// Get returns one catalog entry.
func (c *Catalog) Get(ctx context.Context, id string) (*model.Service, error) {
	return c.services.ByID(ctx, id)
}

// Create adds a service. labels is the comma-separated required-document
// string as typed in the admin form.
func (c *Catalog) Create(ctx context.Context, name, description, labels string) (*model.Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Message: "service name is required"}
	}
	s := &model.Service{
		Name:              name,
		Description:       strings.TrimSpace(description),
		RequiredDocuments: ParseDocumentLabels(labels),
	}
	if err := c.services.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Update overwrites a service's name, description, and document labels.
func (c *Catalog) Update(ctx context.Context, id, name, description, labels string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Message: "service name is required"}
	}
	return c.services.Update(ctx, &model.Service{
		ID:                id,
		Name:              name,
		Description:       strings.TrimSpace(description),
		RequiredDocuments: ParseDocumentLabels(labels),
	})
}

// Delete hard-deletes a service. Existing applications keep their dangling
// reference.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	return c.services.Delete(ctx, id)
}

// ParseDocumentLabels splits the comma-separated form input into the ordered
// label list: entries are trimmed and empties dropped.
func ParseDocumentLabels(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
