package Dispatch

import (
	"fmt"
	"strings"

	"Relay/utils"
)

// ValidationError indicates a malformed or incomplete request shape
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TemplateVariableError carries every unresolved placeholder name
type TemplateVariableError struct {
	Variables []string
}

func (e *TemplateVariableError) Error() string {
	return fmt.Sprintf("missing required template variables: %s", strings.Join(e.Variables, ", "))
}

// CredentialNotFoundError indicates no SMTP account matched the lookup key
type CredentialNotFoundError struct {
	Email string
}

func (e *CredentialNotFoundError) Error() string {
	return fmt.Sprintf("no SMTP configuration found for %s", utils.ObfuscateEmail(e.Email))
}

// ProviderNotConfiguredError indicates alias mode was requested without a
// configured alias provider
type ProviderNotConfiguredError struct{}

func (e *ProviderNotConfiguredError) Error() string {
	return "alias provider is not configured"
}

// ProviderUnavailableError indicates an alias provider call failed. The
// underlying cause is kept for logs; Error keeps the user-facing message
// free of provider internals.
type ProviderUnavailableError struct {
	Err error
}

func (e *ProviderUnavailableError) Error() string {
	return "alias provider request failed, please try again later"
}

func (e *ProviderUnavailableError) Unwrap() error {
	return e.Err
}

// DeliveryError indicates SMTP transmission failed
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return "failed to send email, please try again later"
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
