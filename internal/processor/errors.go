package processor

import (
	"errors"
	"fmt"
)

// ErrNoPDFs is returned by ProcessDirectory when the directory holds no PDF files.
var ErrNoPDFs = errors.New("no PDF files found")

// DecodeError reports a document whose text could not be recovered.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Failure is a document skipped by a batch run.
type Failure struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}
