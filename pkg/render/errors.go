package render

import "errors"

var (
	// ErrFormulaNotFound is returned when rendering a view that was never
	// added to the renderer.
	ErrFormulaNotFound = errors.New("render: formula not found")
	// ErrMissingLocalePath is returned when a localized view compiles without
	// a locale path.
	ErrMissingLocalePath = errors.New("render: missing locale path")
	// ErrInvalidView is returned for nil views or views without an ID.
	ErrInvalidView = errors.New("render: invalid view")
)
