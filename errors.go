package sandhi

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrNoInput indicates no corpus root was given.
	ErrNoInput = errors.New("sandhi: no input directory")

	// ErrFileFailed wraps any failure to read or convert one corpus file.
	// Other files in the same run are unaffected.
	ErrFileFailed = errors.New("sandhi: file failed")
)
