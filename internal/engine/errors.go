package engine

import "fmt"

// ErrorKind classifies export failures.
type ErrorKind int

const (
	KindInput ErrorKind = iota
	KindRasterize
	KindEncode
	KindWrite
)

func (k ErrorKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindRasterize:
		return "rasterize"
	case KindEncode:
		return "encode"
	case KindWrite:
		return "write"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ExportError reports which stage of an export failed. Frame is -1 when the
// failure is not tied to one frame.
type ExportError struct {
	Op    string
	Kind  ErrorKind
	Frame int
	Err   error
}

func (e *ExportError) Error() string {
	if e.Frame >= 0 {
		return fmt.Sprintf("%s: %s frame %d: %v", e.Op, e.Kind, e.Frame, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

func exportErr(op string, kind ErrorKind, err error) *ExportError {
	return &ExportError{Op: op, Kind: kind, Frame: -1, Err: err}
}
