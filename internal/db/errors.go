package db

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// documentValidationFailure is the server error code for schema validation.
const documentValidationFailure = 121

// IsDuplicateKey reports whether err is a unique index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsDocumentValidation reports whether err is a server-side document
// validation failure.
func IsDocumentValidation(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == documentValidationFailure {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		return ce.Code == documentValidationFailure
	}
	return false
}

// IsNoDocuments reports whether err is the driver's found-nothing signal.
func IsNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
