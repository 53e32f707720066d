package portal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentLabels(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Aadhaar, Photo", []string{"Aadhaar", "Photo"}},
		{"  Aadhaar ,, Photo ,", []string{"Aadhaar", "Photo"}},
		{"", []string{}},
		{" , , ", []string{}},
		{"Income Certificate", []string{"Income Certificate"}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseDocumentLabels(c.in), "input %q", c.in)
	}
}

func TestCatalogCRUD(t *testing.T) {
	ctx := context.Background()
	catalog := NewCatalog(NewMemoryServices())

	svc, err := catalog.Create(ctx, " PAN Card ", "Apply for a PAN card", "Aadhaar, Photo")
	require.NoError(t, err)
	assert.Equal(t, "PAN Card", svc.Name)
	assert.Equal(t, []string{"Aadhaar", "Photo"}, svc.RequiredDocuments)

	_, err = catalog.Create(ctx, "", "", "")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	require.NoError(t, catalog.Update(ctx, svc.ID, "PAN Card", "Updated", "Aadhaar, Photo, Address Proof"))
	got, err := catalog.Get(ctx, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.Description)
	assert.Len(t, got.RequiredDocuments, 3)

	require.NoError(t, catalog.Delete(ctx, svc.ID))
	_, err = catalog.Get(ctx, svc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, catalog.Delete(ctx, svc.ID), ErrNotFound)
}
