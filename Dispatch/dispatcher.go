package Dispatch

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"
	"time"

	"Relay/Models"
	"Relay/Templates"
	"Relay/utils"

	"github.com/go-playground/validator/v10"
)

// AccountStore resolves outbound SMTP accounts by sender address
type AccountStore interface {
	Lookup(email string) (Models.SmtpAccount, bool)
}

// TemplateStore renders the subject and body of a message
type TemplateStore interface {
	Render(templateName, body, subject string, subs map[string]string) (string, string, error)
}

// AliasProvider drives the external alias service. All three operations are
// idempotent on the provider side, so a failed request can safely be retried
// whole by the caller.
type AliasProvider interface {
	GetOrCreateAlias(prefix, domain string) (int64, error)
	CreateContact(aliasID int64, recipient string) (int64, error)
	GetReverseAlias(contactID int64) (string, error)
}

// Sender transmits a composed message through an SMTP account
type Sender interface {
	Send(account Models.SmtpAccount, message Models.EmailMessage) error
}

// SenderFunc adapts a plain function to the Sender interface
type SenderFunc func(account Models.SmtpAccount, message Models.EmailMessage) error

func (f SenderFunc) Send(account Models.SmtpAccount, message Models.EmailMessage) error {
	return f(account, message)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report field names as they appear on the wire
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Dispatcher coordinates credential resolution, template rendering, the
// alias protocol and SMTP transmission for one send request
type Dispatcher struct {
	accounts  AccountStore
	templates TemplateStore
	provider  AliasProvider
	sender    Sender
}

// NewDispatcher creates a Dispatcher. A nil provider disables alias mode;
// requests carrying an alias then fail with ProviderNotConfiguredError.
func NewDispatcher(accounts AccountStore, templates TemplateStore, provider AliasProvider, sender Sender) *Dispatcher {
	return &Dispatcher{
		accounts:  accounts,
		templates: templates,
		provider:  provider,
		sender:    sender,
	}
}

// plan is the resolved delivery decision: which account sends, and which
// address goes on the envelope
type plan struct {
	account   Models.SmtpAccount
	recipient string
}

// Dispatch validates a send request, renders its content, resolves the
// delivery mode and hands the message to the SMTP transport. Every failure
// comes back as one of the typed errors in this package.
func (d *Dispatcher) Dispatch(req Models.SendRequest) (Models.SendResponse, error) {
	if err := validateRequest(req); err != nil {
		return Models.SendResponse{}, err
	}

	subs := req.Substitutions
	if subs == nil {
		subs = map[string]string{}
	}

	// Content is rendered before any external call so that missing template
	// variables fail cheaply and without side effects
	subject, body, err := d.templates.Render(req.Template, req.Body, req.Subject, subs)
	if err != nil {
		var notFound *Templates.NotFoundError
		if errors.As(err, &notFound) {
			return Models.SendResponse{}, &ValidationError{Message: fmt.Sprintf("unknown template: %s", notFound.Name)}
		}
		var missing *Templates.MissingVariablesError
		if errors.As(err, &missing) {
			return Models.SendResponse{}, &TemplateVariableError{Variables: missing.Variables}
		}
		return Models.SendResponse{}, &ValidationError{Message: err.Error()}
	}

	deliveryPlan, err := d.resolvePlan(req)
	if err != nil {
		return Models.SendResponse{}, err
	}

	// The envelope sender is always the resolved account's address; in alias
	// mode the provider only forwards mail originating from the mailbox
	message := Models.EmailMessage{
		FromEmail: deliveryPlan.account.FromEmail,
		FromName:  senderName(req, subs),
		To:        deliveryPlan.recipient,
		Subject:   subject,
		Body:      body,
	}

	if err := d.sender.Send(deliveryPlan.account, message); err != nil {
		log.Printf("Failed to send email to %s: %v", utils.ObfuscateEmail(req.ToEmail), err)
		return Models.SendResponse{}, &DeliveryError{Err: err}
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	log.Printf("Email sent successfully from %s to %s at %s",
		utils.ObfuscateEmail(req.FromEmail), utils.ObfuscateEmail(req.ToEmail), timestamp)

	return Models.SendResponse{
		Success: true,
		Message: fmt.Sprintf("Email sent successfully at %s", timestamp),
	}, nil
}

// resolvePlan selects the delivery mode. The presence of alias alone decides
// it: alias mode routes through the provider's reverse alias using the
// mailbox account, direct mode sends straight to the recipient using the
// account keyed by from_email.
func (d *Dispatcher) resolvePlan(req Models.SendRequest) (plan, error) {
	if req.Alias != nil {
		log.Printf("Using alias delivery with mailbox: %s", utils.ObfuscateEmail(req.Alias.Mailbox))

		account, ok := d.accounts.Lookup(req.Alias.Mailbox)
		if !ok {
			return plan{}, &CredentialNotFoundError{Email: req.Alias.Mailbox}
		}

		if d.provider == nil {
			return plan{}, &ProviderNotConfiguredError{}
		}

		prefix, domain := splitAddress(req.FromEmail)

		aliasID, err := d.provider.GetOrCreateAlias(prefix, domain)
		if err != nil {
			log.Printf("Alias resolution failed for %s@%s: %v", prefix, domain, err)
			return plan{}, &ProviderUnavailableError{Err: err}
		}

		contactID, err := d.provider.CreateContact(aliasID, req.ToEmail)
		if err != nil {
			log.Printf("Contact registration failed for %s: %v", utils.ObfuscateEmail(req.ToEmail), err)
			return plan{}, &ProviderUnavailableError{Err: err}
		}

		reverseAlias, err := d.provider.GetReverseAlias(contactID)
		if err != nil {
			log.Printf("Reverse alias resolution failed for contact %d: %v", contactID, err)
			return plan{}, &ProviderUnavailableError{Err: err}
		}

		// The provider performs the final hop: the message is addressed to
		// the reverse alias, never to the real recipient
		return plan{account: account, recipient: reverseAlias}, nil
	}

	log.Printf("Using plain SMTP with from_email: %s", utils.ObfuscateEmail(req.FromEmail))

	account, ok := d.accounts.Lookup(req.FromEmail)
	if !ok {
		return plan{}, &CredentialNotFoundError{Email: req.FromEmail}
	}

	return plan{account: account, recipient: req.ToEmail}, nil
}

func validateRequest(req Models.SendRequest) error {
	if err := validate.Struct(req); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			first := fieldErrors[0]
			switch first.Tag() {
			case "required":
				return &ValidationError{Message: fmt.Sprintf("'%s' is required", first.Field())}
			case "email":
				return &ValidationError{Message: fmt.Sprintf("'%s' must be a valid email address", first.Field())}
			default:
				return &ValidationError{Message: fmt.Sprintf("'%s' is invalid", first.Field())}
			}
		}
		return &ValidationError{Message: "invalid request"}
	}

	if (req.Body == "") == (req.Template == "") {
		return &ValidationError{Message: "exactly one of 'body' or 'template' must be provided"}
	}

	return nil
}

// splitAddress splits an email at its first @ into local part and domain
func splitAddress(email string) (string, string) {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// senderName picks the display name for the From header. A project_name
// substitution takes precedence over the request's from_name.
func senderName(req Models.SendRequest, subs map[string]string) string {
	if projectName := subs["project_name"]; projectName != "" {
		return projectName + " Team"
	}
	return req.FromName
}
