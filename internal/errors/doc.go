// Package errors defines error types for the chat pipeline.
//
// This package provides structured error types that wrap the failure
// scenarios of launching and supervising the external chat CLI. All error
// types support error unwrapping and can be checked using errors.Is,
// errors.As, and errors.AsType.
package errors
