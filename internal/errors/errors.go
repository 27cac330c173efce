// Package errors defines the error taxonomy of the solver: configuration
// errors detected before any allocation, and allocation failures. Both are
// fatal for a run. Non-convergence is not an error and has no entry here.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrUsage indicates missing or malformed command-line arguments
	ErrUsage = errors.New("usage error")

	// ErrInvalidSize indicates a grid side length that is not greater than 2
	ErrInvalidSize = errors.New("invalid grid size")

	// ErrInvalidThreads indicates a worker count below 1
	ErrInvalidThreads = errors.New("invalid thread count")

	// ErrInvalidConfig indicates a configuration value that failed validation
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrAllocation indicates that the grid could not be allocated
	ErrAllocation = errors.New("grid allocation failed")
)

// Error は構造化されたエラー
type Error struct {
	// Code is a machine-readable error code
	Code string

	// Message is a human-readable error message
	Message string

	// Err is the underlying error, if any
	Err error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError は新しいエラーを作成する
func NewError(code, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsConfig は設定エラーかどうかを判定する
func IsConfig(err error) bool {
	return errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidSize) ||
		errors.Is(err, ErrInvalidThreads) ||
		errors.Is(err, ErrInvalidConfig)
}

// IsAllocation はアロケーション失敗かどうかを判定する
func IsAllocation(err error) bool {
	return errors.Is(err, ErrAllocation)
}

// Exit codes
const (
	ExitOK    = 0
	ExitFatal = 1
	ExitUsage = 2
)

// ExitCode はエラーに対応するプロセス終了コードを返す
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case IsConfig(err):
		return ExitUsage
	default:
		return ExitFatal
	}
}
