package errors

import (
	stderrors "errors"
	"fmt"
)

// FetchError is returned by the results fetcher when a file could not be
// downloaded or read from the cache. The loading pipeline hands it back to
// callers unchanged; no retry happens below the fetcher.
type FetchError struct {
	Year       int
	Electorate int
	VoteType   string
	URL        string
	Err        error
}

func (e *FetchError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("fetch %d/%d/%s from %s: %v", e.Year, e.Electorate, e.VoteType, e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %d/%d/%s: %v", e.Year, e.Electorate, e.VoteType, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// AsFetchError extracts a FetchError from an error chain.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if stderrors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
