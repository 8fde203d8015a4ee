package contract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contract"
)

func TestParseMessageCatalog(t *testing.T) {
	t.Run("parses a two-level document", func(t *testing.T) {
		catalog, err := contract.ParseMessageCatalog([]byte(`
integer:
  invalid: "Expected a whole number."
string:
  blank: "Cannot be empty."
  required: "Say something."
`))
		require.NoError(t, err)

		assert.Equal(t, map[string]string{"invalid": "Expected a whole number."}, catalog.Field("integer"))
		assert.Equal(t, "Cannot be empty.", catalog.Field("string")["blank"])
		assert.Nil(t, catalog.Field("uuid"))
	})

	t.Run("rejects malformed documents", func(t *testing.T) {
		_, err := contract.ParseMessageCatalog([]byte(`integer: "flat"`))
		assert.Error(t, err)

		_, err = contract.ParseMessageCatalog([]byte(`
integer:
  invalid: [1, 2]
`))
		assert.Error(t, err)

		_, err = contract.ParseMessageCatalog([]byte(`: : :`))
		assert.Error(t, err)
	})

	t.Run("catalog overrides flow into fields", func(t *testing.T) {
		catalog, err := contract.ParseMessageCatalog([]byte(`
integer:
  required: "Identifier is mandatory."
`))
		require.NoError(t, err)

		schema := contract.MustNew(contract.Fields{
			{Name: "id", Field: contract.Integer(contract.Messages(catalog.Field("integer")))},
		})

		_, lerr := schema.Load(map[string]any{})
		verr, ok := contract.AsValidationError(lerr)
		require.True(t, ok)
		assert.Equal(t, []string{"Identifier is mandatory."}, verr.Get("id"))
	})
}
