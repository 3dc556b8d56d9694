package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/equipment-health-etl/internal/domain"
	"github.com/couchcryptid/equipment-health-etl/internal/ingest"
	"github.com/couchcryptid/equipment-health-etl/internal/validate"
)

func TestGenerate_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	na, err := generate(&a, options{days: 5, seed: 42})
	require.NoError(t, err)
	nb, err := generate(&b, options{days: 5, seed: 42})
	require.NoError(t, err)

	assert.Equal(t, na, nb)
	assert.Equal(t, a.String(), b.String())

	var c bytes.Buffer
	_, err = generate(&c, options{days: 5, seed: 43})
	require.NoError(t, err)
	assert.NotEqual(t, a.String(), c.String())
}

func TestGenerate_Ingestible(t *testing.T) {
	var buf bytes.Buffer
	rows, err := generate(&buf, options{days: 20, seed: 7})
	require.NoError(t, err)
	require.Positive(t, rows)

	ds, rep, err := ingest.Read(&buf, "mock.csv", ingest.Options{})
	require.NoError(t, err)

	assert.Equal(t, 3, rep.HeaderRow, "two title rows precede the header")
	assert.Equal(t, rows, rep.DataRows)
	assert.Equal(t, rows, rep.Kept+rep.Dropped[ingest.DropMissingKey]+rep.Dropped[ingest.DropInvalidDate])

	report := validate.Run(ds, domain.DefaultVocabulary())
	for _, p := range report.Phases {
		assert.True(t, p.Passed(), "%s: %v", p.Name, p.Errors)
	}
}
