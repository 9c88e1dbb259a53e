/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the typed error kinds returned across the a52 package,
  wrapped with github.com/pkg/errors so callers can unwrap with errors.As
  or errors.Unwrap. errors.Cause does not unwrap these types, which have
  no Cause method.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package a52

import "github.com/pkg/errors"

// ConfigError indicates an EncoderConfig failed validation before any
// frame was encoded.
type ConfigError struct {
	cause error
}

func (e *ConfigError) Error() string { return "a52: invalid configuration: " + e.cause.Error() }
func (e *ConfigError) Unwrap() error { return e.cause }

func newConfigError(format string, args ...interface{}) error {
	return &ConfigError{cause: errors.Errorf(format, args...)}
}

// BudgetInfeasibleError is returned when the bit-allocation search cannot
// fit the requested quality into the configured frame size even at the
// lowest SNR offset.
type BudgetInfeasibleError struct {
	BitRate int
	cause   error
}

func (e *BudgetInfeasibleError) Error() string {
	return errors.Wrapf(e.cause, "a52: bitrate %d kbps too small for this signal", e.BitRate).Error()
}
func (e *BudgetInfeasibleError) Unwrap() error { return e.cause }

func newBudgetInfeasibleError(bitrate int) error {
	return &BudgetInfeasibleError{BitRate: bitrate, cause: errors.New("bit allocation did not converge")}
}

// InputFormatError is returned when a caller passes a pull-interface frame
// that doesn't match the configured channel count or frame length.
type InputFormatError struct {
	cause error
}

func (e *InputFormatError) Error() string { return "a52: bad input: " + e.cause.Error() }
func (e *InputFormatError) Unwrap() error  { return e.cause }

func newInputFormatError(format string, args ...interface{}) error {
	return &InputFormatError{cause: errors.Errorf(format, args...)}
}

// InternalAssertionError indicates a pipeline stage produced a state the
// rest of the encoder cannot proceed with; it signals a bug in this
// package, not a bad caller input.
type InternalAssertionError struct {
	cause error
}

func (e *InternalAssertionError) Error() string { return "a52: internal assertion failed: " + e.cause.Error() }
func (e *InternalAssertionError) Unwrap() error  { return e.cause }

func newInternalAssertionError(format string, args ...interface{}) error {
	return &InternalAssertionError{cause: errors.Errorf(format, args...)}
}
