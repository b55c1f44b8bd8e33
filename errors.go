package mdpress

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown = errors.New("markdown content cannot be empty")
	ErrTokenize      = errors.New("tokenization failed")
	ErrAnnotate      = errors.New("annotation pass failed")
	ErrRender        = errors.New("render failed")
	ErrPluginLoad    = errors.New("plugin loading failed")

	// Engine option validation errors.
	ErrInvalidWindow = errors.New("invalid window size")
)
