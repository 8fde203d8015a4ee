package contract_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contract"
	"github.com/dmitrymomot/contract/validator"
)

func TestFieldPolicy_Required(t *testing.T) {
	t.Run("missing input on a required field fails with the required message", func(t *testing.T) {
		_, err := contract.Integer().Load(contract.Missing)
		verr, ok := contract.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, []string{"This field is required."}, verr.Messages())
	})

	t.Run("a configured default makes the field optional", func(t *testing.T) {
		value, err := contract.Integer(contract.Default(int64(7))).Load(contract.Missing)
		require.NoError(t, err)
		assert.Equal(t, int64(7), value)
	})

	t.Run("Required overrides the default-derived policy", func(t *testing.T) {
		_, err := contract.Integer(contract.Default(int64(7)), contract.Required()).Load(contract.Missing)
		_, ok := contract.AsValidationError(err)
		assert.True(t, ok)
	})

	t.Run("Optional without a default yields the missing sentinel", func(t *testing.T) {
		value, err := contract.Integer(contract.Optional()).Load(contract.Missing)
		require.NoError(t, err)
		assert.True(t, contract.IsMissing(value))
	})

	t.Run("producer default is invoked fresh on every call", func(t *testing.T) {
		calls := 0
		field := contract.Integer(contract.DefaultFunc(func() any {
			calls++
			return int64(calls)
		}))

		first, err := field.Load(contract.Missing)
		require.NoError(t, err)
		second, err := field.Load(contract.Missing)
		require.NoError(t, err)

		assert.Equal(t, int64(1), first)
		assert.Equal(t, int64(2), second)
	})
}

func TestFieldPolicy_Null(t *testing.T) {
	t.Run("null input fails with the null message, not required", func(t *testing.T) {
		_, err := contract.Integer().Load(nil)
		verr, ok := contract.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, []string{"This field may not be null."}, verr.Messages())
	})

	t.Run("AllowNone loads null as nil without parsing", func(t *testing.T) {
		value, err := contract.Integer(contract.AllowNone()).Load(nil)
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("a nil default implicitly allows null", func(t *testing.T) {
		value, err := contract.Integer(contract.Default(nil)).Load(nil)
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("RejectNone overrides the nil-default policy", func(t *testing.T) {
		_, err := contract.Integer(contract.Default(nil), contract.RejectNone()).Load(nil)
		_, ok := contract.AsValidationError(err)
		assert.True(t, ok)
	})

	t.Run("dump passes null through without consulting the policy", func(t *testing.T) {
		value, err := contract.Integer().Dump(nil)
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("dump of missing yields the default", func(t *testing.T) {
		value, err := contract.Integer(contract.Default(int64(3))).Dump(contract.Missing)
		require.NoError(t, err)
		assert.Equal(t, int64(3), value)

		value, err = contract.Integer().Dump(contract.Missing)
		require.NoError(t, err)
		assert.True(t, contract.IsMissing(value))
	})
}

func TestFieldValidation(t *testing.T) {
	t.Run("all rule failures for one value are collected", func(t *testing.T) {
		field := contract.Integer(contract.Rules(
			validator.Min(10),
			validator.By(func(any) error { return errors.New("never even") }),
		))

		_, err := field.Load(3)
		verr, ok := contract.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, []string{"must be at least 10", "never even"}, verr.Messages())
	})

	t.Run("a failed predicate uses the validator_failed message", func(t *testing.T) {
		field := contract.Integer(contract.Rules(
			validator.Func(func(any) bool { return false }),
		))

		_, err := field.Load(3)
		verr, ok := contract.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, []string{"Invalid value."}, verr.Messages())
	})

	t.Run("a structured rule failure propagates unmerged", func(t *testing.T) {
		structured := contract.NewFieldErrors(map[string]*contract.Error{
			"inner": contract.NewError("bad"),
		})
		field := contract.Integer(contract.Rules(
			validator.By(func(any) error { return errors.New("flat") }),
			validator.By(func(any) error { return structured }),
		))

		_, err := field.Load(3)
		verr, ok := contract.AsValidationError(err)
		require.True(t, ok)
		assert.Same(t, structured, verr)
	})

	t.Run("rules are skipped for null results", func(t *testing.T) {
		field := contract.String(
			contract.AllowNone(),
			contract.Rules(validator.Func(func(any) bool { return false })),
		)

		value, err := field.Load("   ")
		require.NoError(t, err)
		assert.Nil(t, value)
	})
}

func TestFieldMessages(t *testing.T) {
	t.Run("instance overrides win over defaults", func(t *testing.T) {
		field := contract.Integer(contract.Messages(map[string]string{
			"required": "gotta have it",
		}))

		_, err := field.Load(contract.Missing)
		verr, ok := contract.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, []string{"gotta have it"}, verr.Messages())
	})

	t.Run("variant defaults survive unrelated overrides", func(t *testing.T) {
		field := contract.Integer(contract.Messages(map[string]string{
			"required": "gotta have it",
		}))

		_, err := field.Load("abc")
		verr, ok := contract.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, []string{"A valid integer is required."}, verr.Messages())
	})
}

func TestMisplacedOption(t *testing.T) {
	t.Run("variant option on the wrong field kind panics", func(t *testing.T) {
		assert.Panics(t, func() {
			contract.Integer(contract.AllowBlank())
		})
	})
}
