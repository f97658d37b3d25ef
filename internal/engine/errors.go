package engine

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a run failed.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindAssetLoad
	KindSourceImage
	KindConfigParse
	KindEncode
	KindTranscode
	KindLayerLoad
)

func (k ErrorKind) String() string {
	switch k {
	case KindAssetLoad:
		return "asset load"
	case KindSourceImage:
		return "source image"
	case KindConfigParse:
		return "config parse"
	case KindEncode:
		return "encode"
	case KindTranscode:
		return "transcode"
	case KindLayerLoad:
		return "layer load"
	default:
		return "none"
	}
}

// RunError is a classified run failure.
type RunError struct {
	Kind ErrorKind
	Err  error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// Is matches another *RunError of the same kind, so
// errors.Is(err, &RunError{Kind: KindEncode}) works.
func (e *RunError) Is(target error) bool {
	t, ok := target.(*RunError)
	return ok && t.Err == nil && t.Kind == e.Kind
}

func runErr(kind ErrorKind, err error) *RunError {
	return &RunError{Kind: kind, Err: err}
}

// KindOf returns the kind of the first RunError in err's chain.
func KindOf(err error) ErrorKind {
	var re *RunError
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindNone
}

// Result is what every top-level operation reports. On success Message is
// the output path; on failure it describes the error. A failed transcode
// still succeeds: Message is then the raw file and Kind is KindTranscode.
type Result struct {
	Status   bool
	Message  string
	JSONPath string
	Kind     ErrorKind
	Err      error
}

func failed(err error) Result {
	return Result{Status: false, Message: err.Error(), Kind: KindOf(err), Err: err}
}
