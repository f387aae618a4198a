// Package errors provides standardized error handling for dataviz.
// It defines the error taxonomy shared by the catalog, table loader, plot
// renderer and every UI surface, plus helpers for creating and inspecting them.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	FileAccessDenied
	DirectoryNotFound
	InvalidPath
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	// Table error kinds
	MalformedTable
	DuplicateColumn
	// Validation kinds
	MissingSelection
	UnknownColumn
	UnsupportedData
	// Rendering
	RenderFailed
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// Message returns the message without the wrapped cause
func (e *ApplicationError) Message() string {
	return e.msg
}

// FileError represents errors related to file and directory access
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// ParseError is returned when a data file cannot be read as a table.
type ParseError struct {
	ApplicationError
	file string
	line int
}

// NewParseError creates a new parse error. line is 0 when unknown.
func NewParseError(msg string, file string, line int, kind ErrorKind, err error) *ParseError {
	return &ParseError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		file: file,
		line: line,
	}
}

// Error returns the parse error message
func (e *ParseError) Error() string {
	loc := e.file
	if e.line > 0 {
		loc = fmt.Sprintf("%s:%d", e.file, e.line)
	}
	if loc == "" {
		return e.ApplicationError.Error()
	}
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.msg, loc, e.err)
	}
	return fmt.Sprintf("%s: %s", e.msg, loc)
}

// File returns the name of the file that failed to parse
func (e *ParseError) File() string {
	return e.file
}

// Line returns the 1-based line of the failure, or 0
func (e *ParseError) Line() int {
	return e.line
}

// ValidationWarning is a user-correctable rejection of a plot request.
// It never aborts an interaction; UIs show Error() inline and let the
// user retry.
type ValidationWarning struct {
	ApplicationError
	field string
}

// NewValidationWarning creates a new validation warning for the given field
// ("x", "y", "kind" or "file").
func NewValidationWarning(msg string, field string, kind ErrorKind) *ValidationWarning {
	return &ValidationWarning{
		ApplicationError: ApplicationError{
			msg:  msg,
			kind: kind,
		},
		field: field,
	}
}

// Field returns the selection the warning refers to
func (e *ValidationWarning) Field() string {
	return e.field
}

// RenderError wraps failures raised while drawing a chart
type RenderError struct {
	ApplicationError
	plotKind string
}

// NewRenderError creates a new render error
func NewRenderError(msg string, plotKind string, err error) *RenderError {
	return &RenderError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: RenderFailed,
		},
		plotKind: plotKind,
	}
}

// Error returns the render error message
func (e *RenderError) Error() string {
	if e.plotKind != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.plotKind, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.plotKind)
	}
	return e.ApplicationError.Error()
}

// PlotKind returns the plot kind that failed to render
func (e *RenderError) PlotKind() string {
	return e.plotKind
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// KindOf returns the kind of the first application error in err's chain.
func KindOf(err error) ErrorKind {
	var k interface{ Kind() ErrorKind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return Unknown
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileNotFound
	}
	return false
}

// IsDirectoryNotFound checks if the error reports a missing data directory
func IsDirectoryNotFound(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == DirectoryNotFound
	}
	return false
}

// IsFileAccessDenied checks if the error is a file access denied error
func IsFileAccessDenied(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileAccessDenied
	}
	return false
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// IsParseError checks if the error is a table parse error
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// IsValidationWarning checks if the error is a validation warning
func IsValidationWarning(err error) bool {
	var warning *ValidationWarning
	return errors.As(err, &warning)
}

// IsRenderError checks if the error came from the chart renderer
func IsRenderError(err error) bool {
	var renderErr *RenderError
	return errors.As(err, &renderErr)
}
