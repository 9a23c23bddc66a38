package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xavierca1/prospector/internal/entity"
	"github.com/xavierca1/prospector/internal/resilience"
)

const (
	service        = "hubspot"
	DefaultBaseURL = "https://api.hubapi.com"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) setHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
}

// ContactFromLead maps a lead onto HubSpot contact properties.
func ContactFromLead(l *entity.Lead) ContactProperties {
	first, last := splitName(l.Name)
	return ContactProperties{
		Email:          l.EmailGuess,
		FirstName:      first,
		LastName:       last,
		Company:        l.Company,
		JobTitle:       l.Role,
		Website:        l.SourceURL,
		City:           l.Location,
		Description:    fmt.Sprintf("AI-qualified lead. Score: %d. Reason: %s", l.QualificationScore, l.Reasoning),
		LifecycleStage: "lead",
	}
}

// CreateContact creates the contact and returns its HubSpot id.
func (c *Client) CreateContact(ctx context.Context, token string, l *entity.Lead) (string, error) {
	if token == "" {
		return "", resilience.Tag(service, resilience.Unauthorized, errors.New("missing HubSpot access token"))
	}

	payload, err := json.Marshal(createContactRequest{Properties: ContactFromLead(l)})
	if err != nil {
		return "", fmt.Errorf("hubspot: failed to encode contact: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/crm/v3/objects/contacts", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	c.setHeaders(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("hubspot request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError(resp.StatusCode, body)
	}

	var out contactResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("hubspot: failed to decode contact: %w", err)
	}
	if out.ID == "" {
		return "", errors.New("hubspot: contact created without id")
	}
	return out.ID, nil
}

// LifecycleStage reads the contact back. A contact without a stage
// reports "lead".
func (c *Client) LifecycleStage(ctx context.Context, token, contactID string) (string, error) {
	url := fmt.Sprintf("%s/crm/v3/objects/contacts/%s?properties=lifecyclestage", c.baseURL, contactID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	c.setHeaders(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("hubspot request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp.StatusCode, body)
	}

	var out contactResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("hubspot: failed to decode contact: %w", err)
	}
	if out.Properties.LifecycleStage == "" {
		return "lead", nil
	}
	return out.Properties.LifecycleStage, nil
}

// statusError prefers the message HubSpot puts in its error payload.
func statusError(status int, body []byte) error {
	var e errorResponse
	if json.Unmarshal(body, &e) == nil && e.Message != "" {
		body = []byte(e.Message)
	}
	return resilience.FromStatus(service, status, body)
}

func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", "Unknown"
	}
	if len(parts) == 1 {
		return parts[0], "Unknown"
	}
	return parts[0], strings.Join(parts[1:], " ")
}
