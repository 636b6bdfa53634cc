package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yatraone/transit-api/internal/domain"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(&sample{Email: "a@b.com", Name: "x"}))
}

func TestStruct_ReportsJSONFieldName(t *testing.T) {
	err := Struct(&sample{Email: "nope", Name: "x"})
	require.Error(t, err)
	de, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeValidation, de.Code)
	assert.Equal(t, "email", de.Field)
	assert.Contains(t, de.Message, "'email'")
}

func TestStruct_ListsAllFailures(t *testing.T) {
	err := Struct(&sample{})
	de, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Contains(t, de.Message, "'email'")
	assert.Contains(t, de.Message, "'name'")
}
