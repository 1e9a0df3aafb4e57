package Templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderLiteralBody(t *testing.T) {
	store := NewStore(nil)

	subject, body, err := store.Render("", "Hello {{ name }}", "Hi {{ name }}", map[string]string{"name": "Ada"})

	require.NoError(t, err)
	assert.Equal(t, "Hi Ada", subject)
	assert.Equal(t, "Hello Ada", body)
}

func TestRenderNamedTemplate(t *testing.T) {
	store := NewStore(map[string]string{
		"otp": "<p>Your code is {{ code }}</p>",
	})

	subject, body, err := store.Render("otp", "", "Your code", map[string]string{"code": "123456"})

	require.NoError(t, err)
	assert.Equal(t, "Your code", subject)
	assert.Equal(t, "<p>Your code is 123456</p>", body)
}

func TestRenderReportsAllMissingVariables(t *testing.T) {
	store := NewStore(map[string]string{
		"greeting": "Hi {{a}}, {{b}}",
	})

	_, _, err := store.Render("greeting", "", "Hello", map[string]string{})

	var missing *MissingVariablesError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"a", "b"}, missing.Variables)
}

func TestRenderCollectsMissingAcrossSubjectAndBody(t *testing.T) {
	store := NewStore(nil)

	_, _, err := store.Render("", "Hello {{ name }} and {{ name }}", "Order {{ order_id }}", nil)

	var missing *MissingVariablesError
	require.ErrorAs(t, err, &missing)
	// Deduplicated and sorted
	assert.Equal(t, []string{"name", "order_id"}, missing.Variables)
}

func TestRenderUnknownTemplate(t *testing.T) {
	store := NewStore(nil)

	_, _, err := store.Render("nope", "", "Hello", nil)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nope", notFound.Name)
}

func TestRenderPlaceholderWhitespace(t *testing.T) {
	store := NewStore(nil)
	subs := map[string]string{"name": "Ada"}

	tests := []struct {
		body string
		want string
	}{
		{"{{name}}", "Ada"},
		{"{{ name }}", "Ada"},
		{"{{  name  }}", "Ada"},
	}
	for _, tt := range tests {
		_, body, err := store.Render("", tt.body, "s", subs)
		require.NoError(t, err)
		assert.Equal(t, tt.want, body)
	}
}

func TestLoadReadsHTMLFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "welcome.html"), []byte("Hi {{ name }}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	store, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 1, store.Len())

	_, body, err := store.Render("welcome", "", "s", map[string]string{"name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Hi Ada", body)
}

func TestLoadMissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}
