// Package types defines the error plumbing shared by every codec in ctrkit.
//
// Each subsystem (memory, blz, darc, vfs, version) exposes exactly one error
// struct carrying a stable Code plus the metadata relevant to that failure.
// Codes are namespaced strings ("memory.out_of_bounds", "darc.malformed_file")
// so callers can branch on intent without depending on message text, and
// they survive wrapping: CodeOf and HasCode walk the Unwrap chain.
//
// This package has no dependencies beyond the standard library.
package types
