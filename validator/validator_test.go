package validator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contract/validator"
)

func TestLength(t *testing.T) {
	t.Run("accepts values within bounds", func(t *testing.T) {
		rule := validator.Length(2, 4)
		assert.NoError(t, rule("ab"))
		assert.NoError(t, rule("abcd"))
		assert.NoError(t, rule([]any{1, 2, 3}))
	})

	t.Run("rejects out-of-bounds values with a message", func(t *testing.T) {
		rule := validator.Length(2, 4)
		require.EqualError(t, rule("a"), "must be at least 2 characters long")
		require.EqualError(t, rule("abcde"), "must be at most 4 characters long")
	})

	t.Run("measures strings in runes", func(t *testing.T) {
		assert.NoError(t, validator.Length(2, 2)("héllo"[:3]))
	})

	t.Run("open bounds", func(t *testing.T) {
		assert.NoError(t, validator.MinLength(1)("abcdefgh"))
		assert.NoError(t, validator.MaxLength(10)(""))
		assert.Error(t, validator.MinLength(1)(""))
	})

	t.Run("unmeasurable values fail", func(t *testing.T) {
		assert.Error(t, validator.Length(0, 10)(42))
	})
}

func TestRange(t *testing.T) {
	t.Run("accepts numbers within bounds", func(t *testing.T) {
		rule := validator.Range(1, 3)
		assert.NoError(t, rule(1))
		assert.NoError(t, rule(int64(3)))
		assert.NoError(t, rule(2.5))
	})

	t.Run("rejects out-of-bounds numbers", func(t *testing.T) {
		rule := validator.Range(1, 3)
		require.EqualError(t, rule(0.9), "must be at least 1")
		require.EqualError(t, rule(4), "must be at most 3")
	})

	t.Run("one-sided bounds", func(t *testing.T) {
		assert.NoError(t, validator.Min(18)(21))
		assert.Error(t, validator.Min(18)(17))
		assert.NoError(t, validator.Max(100)(100))
		assert.Error(t, validator.Max(100)(101))
	})

	t.Run("non-numeric values fail", func(t *testing.T) {
		assert.Error(t, validator.Range(0, 1)("5"))
	})
}

func TestMatches(t *testing.T) {
	t.Run("matches against the pattern", func(t *testing.T) {
		rule := validator.Matches(`^[a-z]+$`)
		assert.NoError(t, rule("abc"))
		assert.Error(t, rule("ABC"))
		assert.Error(t, rule(""))
	})

	t.Run("non-string values fail", func(t *testing.T) {
		assert.Error(t, validator.Matches(`.*`)(42))
	})

	t.Run("an invalid pattern panics at construction", func(t *testing.T) {
		assert.Panics(t, func() { validator.Matches(`(`) })
	})
}

func TestOneOf(t *testing.T) {
	rule := validator.OneOf("red", "green", "blue")

	t.Run("accepts listed values", func(t *testing.T) {
		assert.NoError(t, rule("red"))
		assert.NoError(t, rule("blue"))
	})

	t.Run("rejects everything else", func(t *testing.T) {
		require.EqualError(t, rule("yellow"), "must be one of: red, green, blue")
		assert.Error(t, rule(42))
	})
}

func TestUUID(t *testing.T) {
	rule := validator.UUID()

	t.Run("accepts canonical UUIDs", func(t *testing.T) {
		assert.NoError(t, rule("550e8400-e29b-41d4-a716-446655440000"))
	})

	t.Run("rejects near-misses cheaply", func(t *testing.T) {
		assert.Error(t, rule(""))
		assert.Error(t, rule("550e8400e29b41d4a716446655440000"))
		assert.Error(t, rule("550e8400-e29b-41d4-a716-44665544000z"))
		assert.Error(t, rule(42))
	})
}

func TestCustomRules(t *testing.T) {
	t.Run("Func signals with ErrRuleFailed", func(t *testing.T) {
		rule := validator.Func(func(value any) bool { return value == "ok" })
		assert.NoError(t, rule("ok"))
		assert.ErrorIs(t, rule("nope"), validator.ErrRuleFailed)
	})

	t.Run("By passes the check's error through", func(t *testing.T) {
		sentinel := errors.New("custom failure")
		rule := validator.By(func(value any) error { return sentinel })
		assert.ErrorIs(t, rule("anything"), sentinel)
	})
}
