package Models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCreds(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "smtp_creds.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadSmtpAccounts(t *testing.T) {
	path := writeCreds(t, `{
		"smtp_accounts": [
			{
				"from_email": "User1@Example.com",
				"host": "smtp.example.com",
				"port": 465,
				"username": "user1",
				"password": "pw1",
				"enable_tls": false
			},
			{
				"from_email": "noreply@domain.com",
				"host": "smtp.domain.com",
				"username": "noreply",
				"password": "pw2"
			},
			{
				"host": "smtp.orphan.com"
			}
		]
	}`)

	store, err := LoadSmtpAccounts(path)
	require.NoError(t, err)

	// The record without from_email is skipped
	assert.Equal(t, 2, store.Len())

	account, ok := store.Lookup("user1@example.com")
	require.True(t, ok)
	assert.Equal(t, "smtp.example.com", account.Host)
	assert.Equal(t, 465, account.Port)
	assert.False(t, account.EnableTLS)

	// Absent port and enable_tls fall back to 587 and true
	account, ok = store.Lookup("noreply@domain.com")
	require.True(t, ok)
	assert.Equal(t, 587, account.Port)
	assert.True(t, account.EnableTLS)
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	store := NewAccountStore([]SmtpAccount{
		{FromEmail: "User1@Example.com", Host: "smtp.example.com"},
	})

	_, ok := store.Lookup("user1@example.com")
	assert.True(t, ok)
	_, ok = store.Lookup("USER1@EXAMPLE.COM")
	assert.True(t, ok)
	_, ok = store.Lookup("other@example.com")
	assert.False(t, ok)
}

func TestLoadSmtpAccountsMissingFile(t *testing.T) {
	_, err := LoadSmtpAccounts(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadSmtpAccountsInvalidJSON(t *testing.T) {
	path := writeCreds(t, `{"smtp_accounts": [`)
	_, err := LoadSmtpAccounts(path)
	assert.Error(t, err)
}
