// Package generr defines the three kinds of failure a generation run can
// surface. Every error leaving the engine carries exactly one of the marks
// below; callers test for them with errors.Is. Marking never hides the
// original cause, so a provider's own sentinel errors stay reachable too.
package generr

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrConfiguration marks a problem in how properties were declared:
	// cycles, invalid weights, unknown arguments, capability mismatches.
	ErrConfiguration = errors.New("configuration error")

	// ErrContractViolation marks a provider that broke its promises to the
	// engine, e.g. a duplicate for a unique property or a null for a
	// not-null one.
	ErrContractViolation = errors.New("provider contract violation")

	// ErrProviderFailure marks an error raised from inside a provider.
	ErrProviderFailure = errors.New("provider failure")
)

// Configurationf returns a new error marked as ErrConfiguration.
func Configurationf(format string, args ...any) error {
	return errors.Mark(errors.NewWithDepthf(1, format, args...), ErrConfiguration)
}

// Configuration marks an existing error as ErrConfiguration. A nil error
// stays nil.
func Configuration(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.WrapWithDepthf(1, err, format, args...), ErrConfiguration)
}

// ContractViolationf returns a new error marked as ErrContractViolation.
func ContractViolationf(format string, args ...any) error {
	return errors.Mark(errors.NewWithDepthf(1, format, args...), ErrContractViolation)
}

// ContractViolation marks an existing error as ErrContractViolation.
func ContractViolation(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.WrapWithDepthf(1, err, format, args...), ErrContractViolation)
}

// ProviderFailure wraps an error returned by a provider and marks it as
// ErrProviderFailure.
func ProviderFailure(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.WrapWithDepthf(1, err, format, args...), ErrProviderFailure)
}

// Kind names the mark carried by err: "configuration", "contract",
// "provider" or "" when err carries none.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrContractViolation):
		return "contract"
	case errors.Is(err, ErrProviderFailure):
		return "provider"
	default:
		return ""
	}
}
