// Package SimpleLogin is a client for the SimpleLogin alias API.
//
// The endpoints referenced are from the official API documentation:
// https://github.com/simple-login/app/blob/master/docs/api.md
package SimpleLogin

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"Relay/utils"

	"github.com/goccy/go-json"
)

// DefaultBaseURL is the hosted SimpleLogin API
const DefaultBaseURL = "https://app.simplelogin.io/api"

// Client holds the SimpleLogin API key and base URL
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new SimpleLogin client. An empty baseURL selects the
// hosted API.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Alias represents an alias owned by the provider
type Alias struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type aliasListResponse struct {
	Aliases []Alias `json:"aliases"`
}

type aliasSuffix struct {
	Suffix       string `json:"suffix"`
	SignedSuffix string `json:"signed_suffix"`
}

type aliasOptionsResponse struct {
	Suffixes []aliasSuffix `json:"suffixes"`
}

// Contact binds a recipient address to an alias. ReverseAlias is the
// provider-generated address that forwards to the real recipient.
type Contact struct {
	ID           int64  `json:"id"`
	Contact      string `json:"contact"`
	ReverseAlias string `json:"reverse_alias"`
	Existed      bool   `json:"existed"`
}

type apiError struct {
	Error string `json:"error"`
}

// request performs an API call and decodes the JSON response into out
func (c *Client) request(method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("error marshaling JSON: %v", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authentication", c.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %v", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("simplelogin API error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("simplelogin API error (%d)", resp.StatusCode)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("error unmarshaling response: %v", err)
		}
	}

	return nil
}

// listAliases fetches the user's aliases filtered by a query string
func (c *Client) listAliases(query string) ([]Alias, error) {
	var list aliasListResponse
	err := c.request("POST", "/v2/aliases?page_id=0", map[string]string{"query": query}, &list)
	if err != nil {
		return nil, err
	}
	return list.Aliases, nil
}

// getSignedSuffix fetches the cryptographically signed suffix for a domain,
// required by the alias creation endpoint
func (c *Client) getSignedSuffix(domain string) (string, error) {
	var options aliasOptionsResponse
	path := "/v5/alias/options?hostname=" + url.QueryEscape(domain)
	if err := c.request("GET", path, nil, &options); err != nil {
		return "", err
	}

	for _, suffix := range options.Suffixes {
		if suffix.Suffix == "@"+domain {
			return suffix.SignedSuffix, nil
		}
	}

	return "", fmt.Errorf("no signed suffix found for domain: %s", domain)
}

// GetOrCreateAlias returns the id of the alias prefix@domain, creating it
// when it does not exist yet. Calling it repeatedly with the same arguments
// returns the same alias id.
func (c *Client) GetOrCreateAlias(prefix, domain string) (int64, error) {
	aliasEmail := fmt.Sprintf("%s@%s", prefix, domain)

	aliases, err := c.listAliases(aliasEmail)
	if err != nil {
		return 0, err
	}
	for _, alias := range aliases {
		if alias.Email == aliasEmail {
			log.Printf("Using existing alias: %s", utils.ObfuscateEmail(aliasEmail))
			return alias.ID, nil
		}
	}

	signedSuffix, err := c.getSignedSuffix(domain)
	if err != nil {
		return 0, err
	}

	payload := map[string]interface{}{
		"alias_prefix":  prefix,
		"signed_suffix": signedSuffix,
		"note":          fmt.Sprintf("Created by Relay on %s", time.Now().Format(time.RFC3339)),
	}

	var created Alias
	if err := c.request("POST", "/v3/alias/custom/new", payload, &created); err != nil {
		return 0, err
	}

	log.Printf("Alias created successfully: %s", utils.ObfuscateEmail(created.Email))
	return created.ID, nil
}

// CreateContact registers a recipient as a contact on an alias. The provider
// returns the existing contact when one is already registered, so repeated
// calls are safe.
func (c *Client) CreateContact(aliasID int64, recipient string) (int64, error) {
	payload := map[string]string{"contact": fmt.Sprintf("<%s>", recipient)}

	var contact Contact
	path := fmt.Sprintf("/aliases/%d/contacts", aliasID)
	if err := c.request("POST", path, payload, &contact); err != nil {
		return 0, err
	}

	action := "created"
	if contact.Existed {
		action = "retrieved"
	}
	log.Printf("Contact %s: %s", action, utils.ObfuscateEmail(recipient))

	return contact.ID, nil
}

// GetReverseAlias fetches the reverse alias for a contact. Mail sent to it
// is forwarded by the provider to the contact's real address.
func (c *Client) GetReverseAlias(contactID int64) (string, error) {
	var contact Contact
	path := fmt.Sprintf("/contacts/%d", contactID)
	if err := c.request("GET", path, nil, &contact); err != nil {
		return "", err
	}

	if contact.ReverseAlias == "" {
		return "", fmt.Errorf("no reverse alias found for contact %d", contactID)
	}

	return contact.ReverseAlias, nil
}
