package sdk

import (
	"errors"
	"fmt"
)

// Error codes returned in failure envelopes.
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

// APIError is a decoded failure envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mflix API error %d (%s): %s", e.Status, e.Code, e.Message)
}

// IsNotFound reports whether err is a MOVIE_NOT_FOUND failure.
func IsNotFound(err error) bool {
	return hasCode(err, CodeMovieNotFound)
}

// IsValidation reports whether err is a client-side validation failure.
func IsValidation(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Code {
	case CodeInvalidObjectID, CodeMissingTitle, CodeEmptyUpdate, CodeMissingFilter,
		CodeEmptyBatch, CodeNoSearchParameters, CodeInvalidSearchOperator,
		CodeMissingQuery, CodeBadRequest:
		return true
	}
	return false
}

func hasCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}
