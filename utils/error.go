package utils

import "errors"

var (
	ErrorRecordNotFound = errors.New("record not found")

	// ErrorUnauthorized maps to HTTP 401 at the handler boundary.
	ErrorUnauthorized = errors.New("non autorizzato")

	// ErrorNothingToUpdate is returned by partial-update paths when the
	// request body carries no updatable field.
	ErrorNothingToUpdate = errors.New("nessun campo da aggiornare")
)
