package apierr

// Code is a machine-readable error code returned on the debug HTTP surface
// and from MCP tool failures.
type Code string

// Common errors.
const (
	CodeInvalidRequestBody Code = "INVALID_REQUEST_BODY"
	CodeInvalidID          Code = "INVALID_ID"
	CodeInternalError      Code = "INTERNAL_ERROR"
	CodeNotImplemented     Code = "NOT_IMPLEMENTED"
)

// Ingest errors.
const (
	CodeIndexingFailed   Code = "INDEXING_FAILED"
	CodeNoSourceFiles    Code = "NO_SOURCE_FILES"
	CodeExtractorFailed  Code = "EXTRACTOR_FAILED"
	CodeSyntaxCheckFailed Code = "SYNTAX_CHECK_FAILED"
)

// Store errors.
const (
	CodeFileNotFound   Code = "FILE_NOT_FOUND"
	CodeAnchorNotFound Code = "ANCHOR_NOT_FOUND"
	CodeSymbolNotFound Code = "SYMBOL_NOT_FOUND"
	CodeStoreNotReady  Code = "STORE_NOT_READY"
	CodeDumpFailed     Code = "DUMP_FAILED"
)

// Query errors.
const (
	CodeNoAnchorAtPosition Code = "NO_ANCHOR_AT_POSITION"
	CodeNoDefinition       Code = "NO_DEFINITION"
	CodeRenameRejected     Code = "RENAME_REJECTED"
	CodeInvalidIdentifier  Code = "INVALID_IDENTIFIER"
)
