package stresstest

import (
	"errors"
	"fmt"
	"time"
)

const (
	maxConcurrentConns = 1000
	maxTotalRequests   = 1000000
)

// Config describes one load run against a single request
type Config struct {
	ConcurrentConns int
	TotalRequests   int
	// RampUp spreads request start times evenly over this duration
	RampUp time.Duration
	// Duration stops the run early when positive
	Duration time.Duration
	// ExpectStatus marks any other status as unexpected. Zero accepts any
	// status below 400.
	ExpectStatus int
}

// Validate validates the stress test configuration
func (c Config) Validate() error {
	var errs []error
	if c.ConcurrentConns <= 0 {
		errs = append(errs, errors.New("concurrent connections must be greater than 0"))
	}
	if c.ConcurrentConns > maxConcurrentConns {
		errs = append(errs, fmt.Errorf("concurrent connections cannot exceed %d", maxConcurrentConns))
	}
	if c.TotalRequests <= 0 {
		errs = append(errs, errors.New("total requests must be greater than 0"))
	}
	if c.TotalRequests > maxTotalRequests {
		errs = append(errs, fmt.Errorf("total requests cannot exceed %d", maxTotalRequests))
	}
	if c.RampUp < 0 {
		errs = append(errs, errors.New("ramp-up duration cannot be negative"))
	}
	if c.Duration < 0 {
		errs = append(errs, errors.New("test duration cannot be negative"))
	}
	return errors.Join(errs...)
}

// unexpected reports whether status fails the run's expectation
func (c Config) unexpected(status int) bool {
	if c.ExpectStatus != 0 {
		return status != c.ExpectStatus
	}
	return status >= 400
}
