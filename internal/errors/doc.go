// Package errors provides structured, coded error messages for elix.
//
// Every failure the core surfaces on purpose carries a code that maps to a
// registered template:
//
//   - runtime: state that never settles, state set during render, loop misuse
//   - template: missing parts and malformed template descriptions
//   - config: unreadable or invalid elix.yaml
//   - storage: snapshot store failures
//   - protocol: malformed messages from live clients
//
// # Usage
//
//	err := errors.New("E002").
//	    WithDetail(`part "frame" not found in template`).
//	    WithSuggestion(`Add an element with id="frame" to the template`)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E002: Template part missing
//	//
//	//   part "frame" not found in template
//	//
//	//   Hint: Add an element with id="frame" to the template
//
// Errors compare by code, so callers can test for a class of failure:
//
//	if errors.Is(err, errors.New("E001")) { ... }
package errors
