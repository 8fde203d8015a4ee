// Package contract provides a declarative data-mapping engine: schemas of
// named, typed fields that convert between native Go values and primitive
// trees (nested maps of JSON-safe values), validating and collecting
// field-level errors along the way.
//
// Dump is the native → primitive direction and never produces a validation
// failure. Load is the primitive → native direction: every active field is
// converted and validated independently, and all failures are gathered into
// one field-keyed error tree in a single pass instead of stopping at the
// first bad field.
//
// Key features:
//
//   - Explicit, ordered schema declarations with Extend-based composition
//   - Per-field policy: required, null handling, defaults, key aliases,
//     dump-only/load-only directions
//   - Nested schemas with dotted only/exclude filters and collection mode
//   - Partial-load mode that skips absent input instead of demanding it
//   - Recursive, JSON-serializable validation error trees
//
// Basic usage:
//
//	user := contract.MustNew(contract.Fields{
//		{Name: "id", Field: contract.Integer()},
//		{Name: "name", Field: contract.String(contract.Rules(
//			validator.Length(1, 64),
//		))},
//		{Name: "email", Field: contract.String(contract.LoadFrom("email_address"))},
//	})
//
//	out, err := user.Load(map[string]any{"id": "5", "name": "Bob"})
//	if err != nil {
//		if verr, ok := contract.AsValidationError(err); ok {
//			body, _ := json.Marshal(verr) // {"email": ["This field is required."]}
//		}
//	}
//
// Schemas are built once and are read-only afterward, which makes a single
// schema instance safe for concurrent Dump and Load calls. The engine
// performs no I/O: it operates purely on values already materialized from
// whatever wire format the application uses.
package contract
