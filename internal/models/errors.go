package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource Errors
	ErrNotFound      = errors.New("resource not found")
	ErrStoryNotFound = errors.New("story not found")

	// Authentication Errors
	ErrUnauthorized   = errors.New("unauthorized")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrNoToken        = errors.New("no access token available")

	// Workflow Errors
	ErrGenerationInProgress   = errors.New("generation is already in progress")
	ErrRegenerationInProgress = errors.New("regeneration is already in progress")
	ErrNoVariantSelected      = errors.New("no variant is selected")
	ErrPurchaseDeclined       = errors.New("full audio purchase was not confirmed")
	ErrSessionClosed          = errors.New("session is closed")
	ErrStepGuardFailed        = errors.New("current step is not complete")

	// General Request Errors
	ErrBadRequest   = errors.New("bad request")
	ErrInvalidInput = errors.New("invalid input data")
)
