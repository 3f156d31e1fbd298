package stitch

import "fmt"

// An IOError is returned when a file cannot be read or written.
type IOError struct {
	Stub string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Stub != "" {
		return fmt.Sprintf("stitch: %s: %v", e.Stub, e.Err)
	}
	return fmt.Sprintf("stitch: %v", e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// A SourceError is returned when a source image cannot be decoded or its
// sprites composited.
type SourceError struct {
	Stub string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("stitch: %s: %v", e.Stub, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// A ResourceError is returned when a layout needs more sheets than allowed.
type ResourceError struct {
	Sheets int
	Limit  int
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("stitch: layout needs %d sheets, limit is %d", e.Sheets, e.Limit)
}
