package ingest

import "fmt"

// FailureKind classifies where a source adapter failed, so the updater can
// distinguish an unreachable upstream from a payload it could not read.
type FailureKind string

const (
	FailureNetwork FailureKind = "network"
	FailureParse   FailureKind = "parse"
	FailureStorage FailureKind = "storage"
)

// SourceError is the typed failure every adapter returns. Adapters never
// swallow errors; the caller decides whether to fall through to the next
// source.
type SourceError struct {
	Source string
	Kind   FailureKind
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s failure: %v", e.Source, e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

func networkErr(source string, err error) *SourceError {
	return &SourceError{Source: source, Kind: FailureNetwork, Err: err}
}

func parseErr(source string, err error) *SourceError {
	return &SourceError{Source: source, Kind: FailureParse, Err: err}
}

func storageErr(source string, err error) *SourceError {
	return &SourceError{Source: source, Kind: FailureStorage, Err: err}
}
