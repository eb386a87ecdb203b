package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Notes string `json:"notes,omitempty" validate:"max=5"`
	Plain string `validate:"required"`
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(sample{Email: "a@b.io", Notes: "ok", Plain: "x"}))
}

func TestStruct_ReportsJSONNamesAndParams(t *testing.T) {
	err := Struct(sample{Email: "nope", Notes: strings.Repeat("n", 6)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'email' failed 'email'")
	assert.Contains(t, err.Error(), "field 'notes' failed 'max=5'")
	assert.Contains(t, err.Error(), "field 'Plain' failed 'required'")
}
