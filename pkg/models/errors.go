package models

import "errors"

var (
	// ErrParse is returned for malformed model text.
	ErrParse = errors.New("models: parse error")

	// ErrFaceIndex is returned when a face references a vertex, normal or
	// texture coordinate that does not exist.
	ErrFaceIndex = errors.New("models: face index out of range")

	// ErrNoMeshes is returned when a file contains no triangle geometry.
	ErrNoMeshes = errors.New("models: no triangle meshes")

	// ErrUnsupportedFormat is returned by Load for unknown file extensions.
	ErrUnsupportedFormat = errors.New("models: unsupported format")
)
