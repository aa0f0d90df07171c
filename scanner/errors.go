// scanner/errors.go
package scanner

import (
	"errors"
	"fmt"
)

// ErrInvalidEncoding is wrapped by FileReadError when a file is not valid UTF-8.
var ErrInvalidEncoding = errors.New("file is not valid UTF-8")

// FileReadError reports a discovered file that could not be read or decoded.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("reading file %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}
