package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var preferencesSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"userId"},
	"properties": map[string]interface{}{
		"userId": map[string]interface{}{"type": "string", "minLength": 1},
		"k":      map[string]interface{}{"type": "integer", "minimum": 0},
	},
}

func TestSchema_ValidateJSON(t *testing.T) {
	schema, err := Compile(preferencesSchema)
	require.NoError(t, err)

	t.Run("valid document", func(t *testing.T) {
		res, err := schema.ValidateJSON(`{"userId":"u-1","k":3}`)
		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Empty(t, res.Errors)
	})

	t.Run("missing required field", func(t *testing.T) {
		res, err := schema.ValidateJSON(`{"k":3}`)
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.NotEmpty(t, res.GetErrorMessages())
	})

	t.Run("negative k", func(t *testing.T) {
		res, err := schema.Validate(map[string]interface{}{"userId": "u-1", "k": -1})
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.True(t, res.HasErrors("k"))
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := schema.ValidateJSON(`{"userId":`)
		assert.Error(t, err)
	})
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(map[string]interface{}{"type": 42})
	assert.Error(t, err)
}

func TestValidateActivityNaming(t *testing.T) {
	assert.NoError(t, ValidateActivityNaming("matching.animal.rank"))
	assert.Error(t, ValidateActivityNaming("rank-animal-matches"))
	assert.Error(t, ValidateActivityNaming("Matching.Animal.Rank"))
}
