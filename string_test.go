package contract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contract"
	"github.com/dmitrymomot/contract/sanitizer"
)

func TestStringField(t *testing.T) {
	t.Run("loads and trims text", func(t *testing.T) {
		value, err := contract.String().Load("  bob  ")
		require.NoError(t, err)
		assert.Equal(t, "bob", value)
	})

	t.Run("NoTrim keeps surrounding whitespace", func(t *testing.T) {
		value, err := contract.String(contract.NoTrim()).Load("  bob  ")
		require.NoError(t, err)
		assert.Equal(t, "  bob  ", value)
	})

	t.Run("coerces scalar input to string", func(t *testing.T) {
		field := contract.String()

		value, err := field.Load(42)
		require.NoError(t, err)
		assert.Equal(t, "42", value)

		value, err = field.Load(true)
		require.NoError(t, err)
		assert.Equal(t, "true", value)
	})

	t.Run("blank input fails by default", func(t *testing.T) {
		for _, input := range []any{"", "   "} {
			_, err := contract.String().Load(input)
			verr, ok := contract.AsValidationError(err)
			require.True(t, ok, "input %q", input)
			assert.Equal(t, []string{"This field may not be blank."}, verr.Messages(), "input %q", input)
		}
	})

	t.Run("AllowBlank keeps the empty string", func(t *testing.T) {
		value, err := contract.String(contract.AllowBlank()).Load("")
		require.NoError(t, err)
		assert.Equal(t, "", value)
	})

	t.Run("blank maps to nil when null is allowed", func(t *testing.T) {
		value, err := contract.String(contract.AllowNone()).Load("")
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("length bounds use the field's own messages", func(t *testing.T) {
		field := contract.String(contract.MinLen(3), contract.MaxLen(5))

		_, err := field.Load("ab")
		verr, ok := contract.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, []string{"Shorter than minimum length 3."}, verr.Messages())

		_, err = field.Load("abcdef")
		verr, ok = contract.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, []string{"Longer than maximum length 5."}, verr.Messages())
	})

	t.Run("sanitize pipeline runs before the blank check", func(t *testing.T) {
		field := contract.String(contract.Sanitize(
			sanitizer.CollapseWhitespace,
			sanitizer.ToLower,
		))

		value, err := field.Load("  Hello   World  ")
		require.NoError(t, err)
		assert.Equal(t, "hello world", value)
	})

	t.Run("dumps any value as its string form", func(t *testing.T) {
		field := contract.String()

		value, err := field.Dump("x")
		require.NoError(t, err)
		assert.Equal(t, "x", value)

		value, err = field.Dump(12)
		require.NoError(t, err)
		assert.Equal(t, "12", value)
	})
}
