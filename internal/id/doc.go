// Package id derives deterministic resource identifiers.
//
// This is the canonical source for resource and cache-key ids across the
// mockrr codebase. An ID is the hex-encoded MD5 digest of the concatenation
// of its parts:
//
//   - Scalars (strings, byte slices, booleans, integer and float kinds and
//     fmt.Stringer values) contribute their literal string form. true is "1",
//     false is the empty string.
//   - Everything else (maps, slices, structs, nil) contributes its JSON
//     serialization.
//
// Identical part sequences always yield identical ids. The digest is a
// naming device, not a security boundary.
package id
