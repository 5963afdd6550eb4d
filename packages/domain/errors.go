package domain

import (
	"errors"
	"fmt"
)

// FaultKind says which side of the run failed.
type FaultKind string

const (
	NetworkFault    FaultKind = "network"
	ParseFault      FaultKind = "parse"
	FilesystemFault FaultKind = "filesystem"
)

// Sentinels wrapped by Faults; match them with errors.Is.
var (
	ErrNotFound        = errors.New("element not found")
	ErrBadStatus       = errors.New("bad status code")
	ErrInvalidFilename = errors.New("invalid filename")
)

// Fault tags an error with the stage of the pipeline it belongs to.
type Fault struct {
	Kind   FaultKind
	Op     string
	Target string
	Err    error
}

func (f *Fault) Error() string {
	if f.Target == "" {
		return fmt.Sprintf("%s fault: %s: %v", f.Kind, f.Op, f.Err)
	}
	return fmt.Sprintf("%s fault: %s %q: %v", f.Kind, f.Op, f.Target, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }

// NewFault wraps err. op names the step that failed and target the URL, path
// or selector it failed on.
func NewFault(kind FaultKind, op, target string, err error) *Fault {
	return &Fault{Kind: kind, Op: op, Target: target, Err: err}
}

// KindOf reports the kind of the first Fault in err's chain.
func KindOf(err error) (FaultKind, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return "", false
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	kind, _ := KindOf(err)
	switch kind {
	case NetworkFault:
		return 2
	case ParseFault:
		return 3
	case FilesystemFault:
		return 4
	}
	return 1
}
