// Package validator provides the small, closed set of value-checking rules
// consumed by contract fields: length and range bounds, regular-expression
// matching, choice membership, UUID format, and custom predicates.
//
// A Rule checks one already-converted value and returns nil on success or a
// descriptive error on failure. Rules are plain closures with no hidden
// state, so they are allocation-light and goroutine-safe, and the same Rule
// value can be attached to any number of fields.
//
// # Usage
//
//	age := contract.Integer(contract.Rules(
//	    validator.Range(18, 120),
//	))
//	tag := contract.String(contract.Rules(
//	    validator.Length(1, 32),
//	    validator.Matches(`^[a-z0-9-]+$`),
//	))
//
// A rule that fails with ErrRuleFailed carries no message of its own; the
// owning field substitutes its configured "validator_failed" message. Any
// other error surfaces with the rule's message text. Custom rules built
// with By may return a structured *contract.Error to report sub-field
// failures; the engine propagates those unmerged.
package validator
