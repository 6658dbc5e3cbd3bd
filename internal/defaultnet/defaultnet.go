// Package defaultnet bundles the fallback net the CLI falls back to when
// the requested input file cannot be read (spec.md §6, §9's Open Question
// on the fallback being a convenience rather than a contract).
//
// Grounded on original_source/src/main.rs's embedded-default-via-
// include_str! behavior, translated to Go's go:embed.
package defaultnet

import _ "embed"

//go:embed default.net
var source []byte

// Source returns the bundled default net's source text.
func Source() []byte {
	return source
}
