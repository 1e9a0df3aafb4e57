package Models

// SendRequest is the body of POST /v1/send
type SendRequest struct {
	ToEmail       string            `json:"to_email" validate:"required,email"`
	Subject       string            `json:"subject" validate:"required"`
	Body          string            `json:"body"`
	Template      string            `json:"template"`
	Substitutions map[string]string `json:"substitutions"`
	FromName      string            `json:"from_name"`
	FromEmail     string            `json:"from_email" validate:"required,email"`
	Alias         *AliasRequest     `json:"alias"`
}

// AliasRequest selects alias-mode delivery. Mailbox is the outbound account
// the alias provider forwards through; the alias address itself is derived
// from the request's from_email.
type AliasRequest struct {
	Mailbox string `json:"mailbox" validate:"required,email"`
}

// SendResponse is returned for both success and failure outcomes
type SendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// EmailMessage represents a composed email ready to be transmitted
type EmailMessage struct {
	FromEmail string
	FromName  string
	To        string
	Subject   string
	Body      string
}
