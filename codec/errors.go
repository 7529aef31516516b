package codec

import "errors"

// Sentinel errors shared by every registered codec, independent of which
// image format (GPR/VC-5, or any other collaborator-registered codec) it
// comes from.
var (
	// ErrCodecNotFound is returned when Get can't resolve a name or UID.
	ErrCodecNotFound = errors.New("codec not found")

	// ErrInvalidParameter indicates encoding/decoding parameters are invalid.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidQuality indicates an invalid BaseOptions.Quality (must be 0-100).
	ErrInvalidQuality = errors.New("invalid quality (must be 0-100)")

	// ErrUnsupportedFormat indicates the pixel or encoded format is not supported.
	ErrUnsupportedFormat = errors.New("unsupported format")
)
