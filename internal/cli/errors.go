package cli

import (
	"errors"
	"fmt"

	"movecalc/internal/affordability"
	"movecalc/internal/calculator"
	"movecalc/internal/client"
	"movecalc/internal/identity"
	"movecalc/internal/model"
	"movecalc/internal/store"
)

// Error codes printed by commands.
const (
	ErrCodeGeneric      = "E000"
	ErrCodeInvalidInput = "E001"
	ErrCodeEmptyName    = "E002"
	ErrCodeNotFound     = "E003"
	ErrCodeNotConfirmed = "E004"
	ErrCodeNoScope      = "E005"
	ErrCodeIdentity     = "E006"
	ErrCodeBackend      = "E007"
	ErrCodeRateLimited  = "E008"
)

// classify maps an error onto a printed code and an exit code.
func classify(err error) (string, int) {
	switch {
	case errors.Is(err, store.ErrEmptyName):
		return ErrCodeEmptyName, ExitCommandError
	case errors.Is(err, calculator.ErrNotConfirmed):
		return ErrCodeNotConfirmed, ExitCommandError
	case errors.Is(err, model.ErrUnknownField), errors.Is(err, affordability.ErrScheduleTooLong):
		return ErrCodeInvalidInput, ExitCommandError
	case errors.Is(err, store.ErrNotFound), errors.Is(err, calculator.ErrNoSelection):
		return ErrCodeNotFound, ExitFailure
	case errors.Is(err, calculator.ErrNoScope):
		return ErrCodeNoScope, ExitFailure
	case errors.Is(err, identity.ErrInvalidEmail),
		errors.Is(err, identity.ErrWeakPassword),
		errors.Is(err, identity.ErrEmailTaken),
		errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, identity.ErrNoSession),
		errors.Is(err, identity.ErrNotConfigured):
		return ErrCodeIdentity, ExitCommandError
	case client.IsAPIError(err, "RATE_LIMITED"):
		return ErrCodeRateLimited, ExitFailure
	}
	return ErrCodeBackend, ExitFailure
}

// describe renders err for the terminal, adding the server's retry hint.
func describe(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.RetryAfter != "" {
		return fmt.Sprintf("%v (retry after %ss)", err, apiErr.RetryAfter)
	}
	return err.Error()
}

// fail prints err through the formatter and returns the matching ExitError.
func fail(f *OutputFormatter, message string, err error) error {
	code, exit := classify(err)
	_ = f.Error(code, message+": "+describe(err), nil)
	return WrapExitError(exit, message, err)
}
