// Package apierr defines the structured error type and the catalog of
// constructors used across the debug HTTP surface and the MCP tool layer.
package apierr

import (
	"fmt"
	"net/http"
)

// Error is a structured API error with a machine-readable code, human-readable
// message, HTTP status, and an optional wrapped cause (never serialized).
type Error struct {
	code    Code
	message string
	status  int
	cause   error
}

// New creates an Error without a cause.
func New(code Code, status int, message string) *Error {
	return &Error{code: code, message: message, status: status}
}

// Wrap creates an Error that wraps a cause for logging/unwrapping.
func Wrap(code Code, status int, message string, cause error) *Error {
	return &Error{code: code, message: message, status: status, cause: cause}
}

// Error implements the error interface. Includes the cause for log output.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

// Unwrap returns the wrapped cause for errors.Is/errors.As chaining.
func (e *Error) Unwrap() error { return e.cause }

// Code returns the machine-readable error code.
func (e *Error) Code() Code { return e.code }

// Message returns the human-readable message.
func (e *Error) Message() string { return e.message }

// Status returns the HTTP status code.
func (e *Error) Status() int { return e.status }

// ErrorResponse is the wire format written as JSON to the client.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is the inner object of ErrorResponse.
type ErrorBody struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Response returns the wire-format representation of this error.
func (e *Error) Response() ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:    e.code,
			Message: e.message,
		},
	}
}

// --- Common ---

func InvalidRequestBody() *Error {
	return New(CodeInvalidRequestBody, http.StatusBadRequest, "Invalid request body")
}

func InvalidID(entity string) *Error {
	return New(CodeInvalidID, http.StatusBadRequest, "Invalid "+entity+" ID")
}

func InternalError(cause error) *Error {
	return Wrap(CodeInternalError, http.StatusInternalServerError, "Internal server error", cause)
}

func NotImplemented(feature string) *Error {
	return New(CodeNotImplemented, http.StatusNotImplemented, feature+" is not implemented yet")
}

// --- Ingest ---

// IndexingFailed wraps a failed ingest attempt. Per spec.md §7, the store is
// left cleared and the failure is surfaced once per attempt.
func IndexingFailed(cause error) *Error {
	return Wrap(CodeIndexingFailed, http.StatusInternalServerError, "Indexing failed", cause)
}

func NoSourceFiles() *Error {
	return New(CodeNoSourceFiles, http.StatusBadRequest, "File list is empty")
}

func ExtractorFailed(cause error) *Error {
	return Wrap(CodeExtractorFailed, http.StatusInternalServerError, "Extractor process failed", cause)
}

func SyntaxCheckFailed(cause error) *Error {
	return Wrap(CodeSyntaxCheckFailed, http.StatusInternalServerError, "Syntax checker process failed", cause)
}

// --- Store ---

func FileNotFound() *Error {
	return New(CodeFileNotFound, http.StatusNotFound, "File not found")
}

func AnchorNotFound() *Error {
	return New(CodeAnchorNotFound, http.StatusNotFound, "Anchor not found")
}

func SymbolNotFound() *Error {
	return New(CodeSymbolNotFound, http.StatusNotFound, "Symbol not found")
}

func StoreNotReady() *Error {
	return New(CodeStoreNotReady, http.StatusServiceUnavailable, "Index store is not ready")
}

func DumpFailed(cause error) *Error {
	return Wrap(CodeDumpFailed, http.StatusInternalServerError, "Failed to dump index store", cause)
}

// --- Query ---

func NoAnchorAtPosition() *Error {
	return New(CodeNoAnchorAtPosition, http.StatusNotFound, "No anchor covers the given position")
}

func NoDefinition() *Error {
	return New(CodeNoDefinition, http.StatusNotFound, "No definition found for the selected anchor")
}

func RenameRejected(reason string) *Error {
	return New(CodeRenameRejected, http.StatusBadRequest, reason)
}

func InvalidIdentifier(name string) *Error {
	return New(CodeInvalidIdentifier, http.StatusBadRequest, "'"+name+"' is not a valid identifier")
}
