package artifact

import "fmt"

// FetchError reports a failure to obtain the model artifact. It is fatal at startup.
type FetchError struct {
	Source string
	Dest   string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch artifact %s to %s: %v", e.Source, e.Dest, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
