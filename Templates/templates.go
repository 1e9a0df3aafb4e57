package Templates

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// placeholderPattern matches {{ variable }} with flexible inner whitespace
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Store holds the named email templates. Templates are read once at startup
// and never reloaded, so concurrent renders need no locking.
type Store struct {
	templates map[string]string
}

// NotFoundError indicates the request referenced a template name that was
// never loaded
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template not found: %s", e.Name)
}

// MissingVariablesError carries every placeholder that had no substitution,
// not just the first one found
type MissingVariablesError struct {
	Variables []string
}

func (e *MissingVariablesError) Error() string {
	return fmt.Sprintf("missing required template variables: %s", strings.Join(e.Variables, ", "))
}

// NewStore builds a store from already-loaded template contents
func NewStore(templates map[string]string) *Store {
	if templates == nil {
		templates = make(map[string]string)
	}
	return &Store{templates: templates}
}

// Load reads every .html file in dir into the store. The template name is
// the file name without the extension.
func Load(dir string) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read template directory: %v", err)
	}

	templates := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %v", entry.Name(), err)
		}

		name := strings.TrimSuffix(entry.Name(), ".html")
		templates[name] = string(content)
		log.Printf("Loaded email template: %s", name)
	}

	return NewStore(templates), nil
}

// Len returns the number of loaded templates
func (s *Store) Len() int {
	return len(s.templates)
}

// Render resolves the body source (named template when templateName is set,
// the literal body otherwise) and substitutes placeholders in both the
// subject and the body. Every unresolved placeholder across the two is
// collected into a single MissingVariablesError so the caller can report the
// complete list at once. Rendering is pure; the store is not modified.
func (s *Store) Render(templateName, body, subject string, subs map[string]string) (string, string, error) {
	text := body
	if templateName != "" {
		loaded, ok := s.templates[templateName]
		if !ok {
			return "", "", &NotFoundError{Name: templateName}
		}
		text = loaded
	}

	missing := missingVariables(subs, subject, text)
	if len(missing) > 0 {
		return "", "", &MissingVariablesError{Variables: missing}
	}

	return substitute(subject, subs), substitute(text, subs), nil
}

// missingVariables collects placeholders referenced by any of the texts that
// have no entry in subs, deduplicated and sorted
func missingVariables(subs map[string]string, texts ...string) []string {
	seen := make(map[string]bool)
	var missing []string
	for _, text := range texts {
		for _, match := range placeholderPattern.FindAllStringSubmatch(text, -1) {
			name := match[1]
			if _, ok := subs[name]; !ok && !seen[name] {
				seen[name] = true
				missing = append(missing, name)
			}
		}
	}
	sort.Strings(missing)
	return missing
}

func substitute(text string, subs map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if value, ok := subs[name]; ok {
			return value
		}
		return match
	})
}
