package contract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contract"
)

func TestListField(t *testing.T) {
	t.Run("loads every element through the child field", func(t *testing.T) {
		field := contract.List(contract.Integer())

		value, err := field.Load([]any{"1", 2, 3.0})
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), int64(2), int64(3)}, value)
	})

	t.Run("accepts typed slices", func(t *testing.T) {
		field := contract.List(contract.Integer())

		value, err := field.Load([]int{1, 2})
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), int64(2)}, value)
	})

	t.Run("rejects non-sequence input", func(t *testing.T) {
		field := contract.List(contract.Integer())

		for _, input := range []any{"123", 5, map[string]any{}} {
			_, err := field.Load(input)
			verr, ok := contract.AsValidationError(err)
			require.True(t, ok, "input %v", input)
			assert.Equal(t, []string{"A valid list is required."}, verr.Messages(), "input %v", input)
		}
	})

	t.Run("aggregates failures by element index", func(t *testing.T) {
		field := contract.List(contract.Integer())

		_, err := field.Load([]any{1, "bad", 3})
		verr, ok := contract.AsValidationError(err)
		require.True(t, ok)

		assert.Equal(t, map[string]any{
			"1": []string{"A valid integer is required."},
		}, verr.Messages())
		assert.False(t, verr.Has("0"))
		assert.False(t, verr.Has("2"))
	})

	t.Run("empty sequences load unless NotEmpty", func(t *testing.T) {
		value, err := contract.List(contract.Integer()).Load([]any{})
		require.NoError(t, err)
		assert.Equal(t, []any{}, value)

		_, err = contract.List(contract.Integer(), contract.NotEmpty()).Load([]any{})
		verr, ok := contract.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, []string{"This list may not be empty."}, verr.Messages())
	})

	t.Run("dumps every element unconditionally", func(t *testing.T) {
		field := contract.List(contract.String())

		value, err := field.Dump([]any{"a", 1, true})
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "1", "true"}, value)
	})

	t.Run("null elements follow the child field's policy", func(t *testing.T) {
		_, err := contract.List(contract.Integer()).Load([]any{nil})
		verr, ok := contract.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, map[string]any{
			"0": []string{"This field may not be null."},
		}, verr.Messages())

		value, err := contract.List(contract.Integer(contract.AllowNone())).Load([]any{nil})
		require.NoError(t, err)
		assert.Equal(t, []any{nil}, value)
	})
}
