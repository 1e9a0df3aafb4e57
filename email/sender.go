package email

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"Relay/Models"

	"github.com/google/uuid"
)

// dialTimeout bounds the SMTP connect so a slow server cannot hold a
// request worker indefinitely
const dialTimeout = 30 * time.Second

// SendEmail transmits a composed message through the given SMTP account
func SendEmail(account Models.SmtpAccount, message Models.EmailMessage) error {
	serverAddr := fmt.Sprintf("%s:%d", account.Host, account.Port)

	conn, err := net.DialTimeout("tcp", serverAddr, dialTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %v", err)
	}

	client, err := smtp.NewClient(conn, account.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create SMTP client: %v", err)
	}
	defer client.Close()

	// Upgrade the connection before credentials go over the wire
	if account.EnableTLS {
		tlsConfig := &tls.Config{ServerName: account.Host}
		if err = client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %v", err)
		}
	}

	auth := smtp.PlainAuth("", account.Username, account.Password, account.Host)
	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %v", err)
	}

	if err = client.Mail(message.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %v", err)
	}

	if err = client.Rcpt(message.To); err != nil {
		return fmt.Errorf("failed to add recipient: %v", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data connection: %v", err)
	}

	if _, err = w.Write([]byte(BuildMessage(message))); err != nil {
		return fmt.Errorf("failed to write email body: %v", err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data connection: %v", err)
	}

	return client.Quit()
}

// BuildMessage assembles the RFC 822 text for a message
func BuildMessage(message Models.EmailMessage) string {
	var messageBody strings.Builder

	if message.FromName != "" {
		messageBody.WriteString(fmt.Sprintf("From: %s <%s>\r\n", message.FromName, message.FromEmail))
	} else {
		messageBody.WriteString(fmt.Sprintf("From: %s\r\n", message.FromEmail))
	}

	messageBody.WriteString(fmt.Sprintf("To: %s\r\n", message.To))
	messageBody.WriteString(fmt.Sprintf("Subject: %s\r\n", message.Subject))
	messageBody.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	messageBody.WriteString(fmt.Sprintf("Message-ID: <%s@%s>\r\n", uuid.NewString(), senderDomain(message.FromEmail)))
	messageBody.WriteString("MIME-Version: 1.0\r\n")

	if IsHTML(message.Body) {
		messageBody.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	} else {
		messageBody.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	}

	messageBody.WriteString("\r\n")
	messageBody.WriteString(message.Body)

	return messageBody.String()
}

// IsHTML sniffs whether a body should be sent as text/html
func IsHTML(body string) bool {
	trimmed := strings.TrimSpace(body)
	return strings.HasPrefix(trimmed, "<") && strings.Contains(trimmed, ">")
}

func senderDomain(fromEmail string) string {
	if i := strings.Index(fromEmail, "@"); i >= 0 {
		return fromEmail[i+1:]
	}
	return "localhost"
}
