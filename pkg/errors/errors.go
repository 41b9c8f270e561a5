// Package errors carries the coded error used across druglike. A structure
// the SMILES parser rejects surfaces with the same code from the evaluator,
// the HTTP API and the CLI.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

const maxFrames = 32

// AppError pairs a stable code with a client-safe message. Cause keeps the
// underlying error reachable for errors.Is and errors.As.
//
//	return errors.InvalidStructure("C1CC").WithCause(parseErr)
//	return errors.Wrap(err, errors.CodeInternal, "render grid")
type AppError struct {
	Code    ErrorCode
	Message string
	// Detail holds context such as the offending notation or a parse position.
	Detail string
	Cause  error
	// Stack is recorded at construction and never printed by Error.
	Stack string
}

// Error renders "[CODE] message" with ": detail" appended when set.
func (e *AppError) Error() string {
	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(e.Code.String())
	sb.WriteString("] ")
	sb.WriteString(e.Message)
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	return sb.String()
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithDetail returns a copy with Detail replaced. Nil stays nil.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	out := *e
	out.Detail = detail
	return &out
}

// WithCause returns a copy with Cause replaced. Nil stays nil.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	out := *e
	out.Cause = err
	return &out
}

// build is the single constructor; every exported factory calls it directly
// so the recorded stack starts at the factory's caller.
func build(code ErrorCode, message, detail string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Detail:  detail,
		Cause:   cause,
		Stack:   stackFrom(3),
	}
}

// stackFrom formats the stack starting skip frames above itself, dropping
// runtime frames.
func stackFrom(skip int) string {
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return ""
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for f, more := frames.Next(); ; f, more = frames.Next() {
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			return sb.String()
		}
	}
}

func New(code ErrorCode, message string) *AppError {
	return build(code, message, "", nil)
}

// Wrap attaches code and message to err, or returns nil for a nil err.
// CodeUnknown inherits the code of an AppError already in the chain.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		code = GetCode(err)
	}
	return build(code, message, "", err)
}

// IsCode reports whether any AppError in err's chain carries code. Unlike a
// single errors.As, it keeps looking past an outer AppError with another code.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		var ae *AppError
		if !errors.As(err, &ae) {
			return false
		}
		if ae.Code == code {
			return true
		}
		err = ae.Cause
	}
	return false
}

// IsInvalidStructure reports whether err means the toolkit could not build a
// molecule from the notation.
func IsInvalidStructure(err error) bool {
	return IsCode(err, CodeMoleculeInvalidSMILES)
}

// GetCode returns the code of the outermost AppError, CodeOK for nil and
// CodeUnknown for foreign errors.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// InvalidStructure is the error for a notation that does not parse. The
// quoted notation goes in Detail.
func InvalidStructure(notation string) *AppError {
	return build(CodeMoleculeInvalidSMILES, "invalid molecular structure", fmt.Sprintf("%q", notation), nil)
}

func NotFound(message string) *AppError {
	return build(CodeNotFound, message, "", nil)
}

func InvalidParam(message string) *AppError {
	return build(CodeInvalidParam, message, "", nil)
}

func Internal(message string) *AppError {
	return build(CodeInternal, message, "", nil)
}
