package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// Store failures. Mutations always roll back on these.
	ErrStoreUnavailable = errors.New("content store unavailable")
	ErrStoreTimeout     = errors.New("content store timeout")
	ErrVersionConflict  = errors.New("homepage version conflict")

	// Caller errors.
	ErrInvalidSectionReference = errors.New("invalid section reference")
	ErrInvalidPatch            = errors.New("invalid patch")
	ErrInvalidConfig           = errors.New("invalid homepage config")
	ErrNotReady                = errors.New("homepage not loaded")

	// ErrConfigurationShapeMismatch marks a section whose type has no props shape or view.
	ErrConfigurationShapeMismatch = errors.New("configuration shape mismatch")
)
