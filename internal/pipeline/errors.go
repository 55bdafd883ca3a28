package pipeline

import "fmt"

// PortfolioFetchError wraps a broker failure during the snapshot stage.
// It is always stage-fatal: without a portfolio nothing downstream can run.
type PortfolioFetchError struct {
	Err error
}

func (e *PortfolioFetchError) Error() string {
	return fmt.Sprintf("portfolio fetch failed: %v", e.Err)
}

func (e *PortfolioFetchError) Unwrap() error {
	return e.Err
}

// ErrMissingInput marks a stage invoked without its required upstream slot.
// Stage-fatal by definition.
type ErrMissingInput struct {
	Stage string
	Slot  string
}

func (e *ErrMissingInput) Error() string {
	return fmt.Sprintf("%s: required input %q is missing", e.Stage, e.Slot)
}
