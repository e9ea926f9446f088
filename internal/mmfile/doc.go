//go:build unix || windows

// Package mmfile maps input files into memory where the platform allows it.
package mmfile
