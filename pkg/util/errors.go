// Package util provides logging, string helpers and common error types.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors
var (
	ErrUnknownMode       = errors.New("unknown execution mode")
	ErrPlaybookNotFound  = errors.New("playbook not found")
	ErrInvocationFailed  = errors.New("automation tool invocation failed")
	ErrOperationFailed   = errors.New("operation reported failure")
	ErrInvalidCatalog    = errors.New("invalid response catalog")
	ErrDeviceNotFound    = errors.New("device not found in inventory")
	ErrUnsupportedInMode = errors.New("operation not supported in this mode")
)

// InvocationError describes a failed run of the external automation tool.
type InvocationError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *InvocationError) Error() string {
	msg := fmt.Sprintf("%s %s exited with status %d", e.Tool, strings.Join(e.Args, " "), e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *InvocationError) Unwrap() error {
	return ErrInvocationFailed
}

// NewInvocationError creates a new invocation error
func NewInvocationError(tool string, args []string, exitCode int, stderr string) *InvocationError {
	return &InvocationError{
		Tool:     tool,
		Args:     args,
		ExitCode: exitCode,
		Stderr:   stderr,
	}
}

// OperationError is returned by callers that need a Go error from a
// result whose success flag is false.
type OperationError struct {
	Operation string
	Host      string
	Message   string
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s on %s failed", e.Operation, e.Host)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return ErrOperationFailed
}

// NewOperationError creates an operation error
func NewOperationError(operation, host, message string) *OperationError {
	return &OperationError{
		Operation: operation,
		Host:      host,
		Message:   message,
	}
}

// CatalogError points at the source document and location of a malformed
// catalog entry.
type CatalogError struct {
	Source string
	Line   int
	Reason string
}

func (e *CatalogError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("catalog %s line %d: %s", e.Source, e.Line, e.Reason)
	}
	return fmt.Sprintf("catalog %s: %s", e.Source, e.Reason)
}

func (e *CatalogError) Unwrap() error {
	return ErrInvalidCatalog
}

// NewCatalogError creates a catalog error
func NewCatalogError(source string, line int, reason string) *CatalogError {
	return &CatalogError{Source: source, Line: line, Reason: reason}
}
