package models

import "errors"

var (
	// ErrBackendUnavailable means the backing store is unreachable or not configured.
	// Reads fall back to demo data, writes fail.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrNotFound means the target row or sheet does not exist.
	ErrNotFound = errors.New("not found")

	// ErrIngestionFailed means a single photo source could not be retrieved or decoded.
	ErrIngestionFailed = errors.New("photo ingestion failed")

	// ErrReportGenerationFailed means the report could not be rendered.
	ErrReportGenerationFailed = errors.New("report generation failed")

	// ErrValidationFailed means a required field is missing.
	ErrValidationFailed = errors.New("validation failed")
)
