// Package core provides a small, stable facade over metastrip's internal
// engines for external integrations. It re-exports a narrow API surface so
// other programs can strip or inspect media buffers without depending on
// internal implementation packages.
//
// Example:
//
//	out, err := core.Strip("photo.png", data, core.PolicyAll)
//	if err != nil { /* handle */ }
//	_ = os.WriteFile("photo.png", out, 0644)
package core
