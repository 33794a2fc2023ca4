// Package errors defines the coded errors returned by zigdoc commands and the HTTP API.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ParserUnavailable indicates the binary was built without tree-sitter support
	ParserUnavailable ErrorCode = "PARSER_UNAVAILABLE"
	// FileNotFound indicates a requested source file or module does not exist
	FileNotFound ErrorCode = "FILE_NOT_FOUND"
	// ReadFailed indicates a source file could not be read
	ReadFailed ErrorCode = "READ_FAILED"
	// ParseFailed indicates the parser returned no tree
	ParseFailed ErrorCode = "PARSE_FAILED"
	// InvalidOption indicates a bad flag, config value or query parameter
	InvalidOption ErrorCode = "INVALID_OPTION"
	// StoreFailed indicates the index database could not be opened or written
	StoreFailed ErrorCode = "STORE_FAILED"
	// UnsupportedFormat indicates an unknown output format
	UnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// ZigdocError is an error with a stable code, a message and optional fixes.
type ZigdocError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        any         `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error
}

// New creates a ZigdocError carrying the default fixes for code.
func New(code ErrorCode, message string, cause error) *ZigdocError {
	return &ZigdocError{
		Code:           code,
		Message:        message,
		SuggestedFixes: GetSuggestedFixes(code),
		cause:          cause,
	}
}

// Newf is New with a formatted message and no cause.
func Newf(code ErrorCode, format string, args ...any) *ZigdocError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Error implements the error interface
func (e *ZigdocError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ZigdocError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *ZigdocError) WithDetails(details any) *ZigdocError {
	e.Details = details
	return e
}

// CodeOf returns the code of the first ZigdocError in err's chain,
// or InternalError when there is none.
func CodeOf(err error) ErrorCode {
	var ze *ZigdocError
	if stderrors.As(err, &ze) {
		return ze.Code
	}
	return InternalError
}

// IsCode reports whether err's chain contains a ZigdocError with the given code.
func IsCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	var ze *ZigdocError
	return stderrors.As(err, &ze) && ze.Code == code
}

// HTTPStatus maps an error to the status the API responds with.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case FileNotFound:
		return http.StatusNotFound
	case InvalidOption, UnsupportedFormat:
		return http.StatusBadRequest
	case ParseFailed:
		return http.StatusUnprocessableEntity
	case ParserUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	ParserUnavailable: {
		{
			Type:        RunCommand,
			Command:     "CGO_ENABLED=1 go install ./cmd/zigdoc",
			Description: "Rebuild zigdoc with cgo so the tree-sitter grammar is linked",
		},
	},
	StoreFailed: {
		{
			Type:        RunCommand,
			Command:     "zigdoc index --force",
			Description: "Rebuild the documentation index",
		},
	},
	UnsupportedFormat: {
		{
			Type:        RunCommand,
			Command:     "zigdoc extract --help",
			Description: "List the supported output formats",
		},
	},
	InvalidOption: {
		{
			Type:        RunCommand,
			Command:     "zigdoc config show",
			Description: "Inspect the effective configuration",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
