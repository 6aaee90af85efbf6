// Package apperrors defines structured application error types,
// allowing for a clear distinction between error classes (configuration,
// strategy failure, timeout, result mismatch) and for carrying the
// underlying cause. It also owns the process exit codes; mapping an error
// to a code happens once, at the cmd boundary.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// Wrapping types implement the Unwrap() method to support errors.Is() and errors.As().
package apperrors
