package domain

import "errors"

var (
	// ErrInvalidObjectID signals a malformed document identifier.
	ErrInvalidObjectID = errors.New("invalid object id")
	// ErrMovieNotFound signals a missing movie document.
	ErrMovieNotFound = errors.New("movie not found")
	// ErrMissingTitle signals a create payload without the required title.
	ErrMissingTitle = errors.New("title is required")
	// ErrEmptyUpdate signals an update with no fields to change.
	ErrEmptyUpdate = errors.New("update payload must not be empty")
	// ErrMissingFilter signals a bulk delete without any filter.
	ErrMissingFilter = errors.New("filter must not be empty")
	// ErrEmptyBatch signals a batch insert with no documents.
	ErrEmptyBatch = errors.New("movies array must not be empty")
	// ErrNoSearchParameters signals a compound search with zero text fields.
	ErrNoSearchParameters = errors.New("at least one search parameter is required")
	// ErrInvalidSearchOperator signals an operator outside the allow-list.
	ErrInvalidSearchOperator = errors.New("invalid search operator")
	// ErrMissingQuery signals a vector search without a query string.
	ErrMissingQuery = errors.New("query is required")

	// ErrDuplicateKey signals a unique index violation in the store.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrDocumentValidation signals a store-side document validation failure.
	ErrDocumentValidation = errors.New("document validation failed")

	// ErrEmbeddingUnauthorized signals rejected embedding provider credentials.
	ErrEmbeddingUnauthorized = errors.New("embedding provider rejected credentials")
	// ErrEmbeddingUnavailable signals any other embedding provider failure.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")
)

// Machine-readable error codes carried in the failure envelope.
const (
	CodeInvalidObjectID       = "INVALID_OBJECT_ID"
	CodeMovieNotFound         = "MOVIE_NOT_FOUND"
	CodeMissingTitle          = "MISSING_TITLE"
	CodeEmptyUpdate           = "EMPTY_UPDATE"
	CodeMissingFilter         = "MISSING_FILTER"
	CodeEmptyBatch            = "EMPTY_BATCH"
	CodeNoSearchParameters    = "NO_SEARCH_PARAMETERS"
	CodeInvalidSearchOperator = "INVALID_SEARCH_OPERATOR"
	CodeMissingQuery          = "MISSING_QUERY"
	CodeDuplicateKey          = "DUPLICATE_KEY"
	CodeDocumentValidation    = "DOCUMENT_VALIDATION_FAILED"
	CodeEmbeddingUnauthorized = "EMBEDDING_UNAUTHORIZED"
	CodeEmbeddingUnavailable  = "EMBEDDING_UNAVAILABLE"
	CodeBadRequest            = "BAD_REQUEST"
	CodeInternalError         = "INTERNAL_ERROR"
)
