package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/DB Errors
	ErrNotFound      = errors.New("resource not found") // General not found
	ErrJobNotFound   = errors.New("job not found")
	ErrStoryNotFound = errors.New("story not found")

	// Consistency Errors
	ErrNoRootNode = errors.New("story root node not found")

	// General Request/Server Errors
	ErrInternalServer = errors.New("internal server error")
	ErrInvalidInput   = errors.New("invalid input data")
)
