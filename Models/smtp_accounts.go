package Models

import (
	"fmt"
	"log"
	"os"
	"strings"

	"Relay/utils"

	"github.com/goccy/go-json"
)

// SmtpAccount holds the connection settings for one outbound SMTP identity
type SmtpAccount struct {
	FromEmail string `json:"from_email"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	EnableTLS bool   `json:"enable_tls"`
}

// AccountStore is a read-only lookup of SMTP accounts keyed by sender
// address. It is populated once at startup and never mutated afterwards,
// so concurrent lookups need no locking.
type AccountStore struct {
	accounts map[string]SmtpAccount
}

type credsFile struct {
	SmtpAccounts []fileAccount `json:"smtp_accounts"`
}

// fileAccount mirrors SmtpAccount but keeps optional fields as pointers so
// absent values can fall back to defaults (port 587, TLS on).
type fileAccount struct {
	FromEmail string `json:"from_email"`
	Host      string `json:"host"`
	Port      *int   `json:"port"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	EnableTLS *bool  `json:"enable_tls"`
}

// NewAccountStore builds a store from already-constructed accounts, keyed by
// lowercased from_email.
func NewAccountStore(accounts []SmtpAccount) *AccountStore {
	store := &AccountStore{accounts: make(map[string]SmtpAccount)}
	for _, account := range accounts {
		store.accounts[strings.ToLower(account.FromEmail)] = account
	}
	return store
}

// LoadSmtpAccounts reads the credentials file and builds the account store
func LoadSmtpAccounts(path string) (*AccountStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read SMTP credentials file: %v", err)
	}

	var file credsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid JSON in SMTP credentials file %s: %v", path, err)
	}

	var accounts []SmtpAccount
	for _, entry := range file.SmtpAccounts {
		if entry.FromEmail == "" {
			log.Println("SMTP account missing 'from_email', skipping")
			continue
		}

		account := SmtpAccount{
			FromEmail: entry.FromEmail,
			Host:      entry.Host,
			Port:      587,
			Username:  entry.Username,
			Password:  entry.Password,
			EnableTLS: true,
		}
		if entry.Port != nil {
			account.Port = *entry.Port
		}
		if entry.EnableTLS != nil {
			account.EnableTLS = *entry.EnableTLS
		}

		accounts = append(accounts, account)
		log.Printf("Loaded SMTP config for: %s", utils.ObfuscateEmail(entry.FromEmail))
	}

	if len(accounts) == 0 {
		log.Printf("No SMTP accounts loaded from %s", path)
	}

	return NewAccountStore(accounts), nil
}

// Lookup returns the account for a sender address. Matching is
// case-insensitive but otherwise exact; there is no domain-level fallback.
func (s *AccountStore) Lookup(email string) (SmtpAccount, bool) {
	account, ok := s.accounts[strings.ToLower(email)]
	return account, ok
}

// Len returns the number of loaded accounts
func (s *AccountStore) Len() int {
	return len(s.accounts)
}
