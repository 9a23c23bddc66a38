package salesforce

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
	service    = "salesforce"
	apiVersion = "v58.0"
	leadSource = "AI_Agent_Web"
)

type LeadRecord struct {
	FirstName   string `json:"FirstName"`
	LastName    string `json:"LastName"`
	Company     string `json:"Company"`
	Title       string `json:"Title"`
	Email       string `json:"Email,omitempty"`
	Website     string `json:"Website,omitempty"`
	City        string `json:"City,omitempty"`
	Description string `json:"Description"`
	LeadSource  string `json:"LeadSource"`
}

type createResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

type apiError struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
}

type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

func leadsURL(instanceURL string) string {
	return fmt.Sprintf("%s/services/data/%s/sobjects/Lead/", strings.TrimRight(instanceURL, "/"), apiVersion)
}

func RecordFromLead(l *entity.Lead) LeadRecord {
	parts := strings.Fields(l.Name)
	first, last := "", "Unknown"
	if len(parts) > 0 {
		first = parts[0]
	}
	if len(parts) > 1 {
		last = strings.Join(parts[1:], " ")
	}
	return LeadRecord{
		FirstName:   first,
		LastName:    last,
		Company:     l.Company,
		Title:       l.Role,
		Email:       l.EmailGuess,
		Website:     l.SourceURL,
		City:        l.Location,
		Description: fmt.Sprintf("Generated via AI agent. Score: %d.\n\nInsights:\n%s", l.QualificationScore, l.Reasoning),
		LeadSource:  leadSource,
	}
}

// CreateLead inserts a Lead sObject and returns its id.
func (c *Client) CreateLead(ctx context.Context, token, instanceURL string, l *entity.Lead) (string, error) {
	if token == "" || instanceURL == "" {
		return "", resilience.Tag(service, resilience.Unauthorized, errors.New("missing Salesforce token or instance URL"))
	}

	payload, err := json.Marshal(RecordFromLead(l))
	if err != nil {
		return "", fmt.Errorf("salesforce: failed to encode lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, leadsURL(instanceURL), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("salesforce request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError(resp.StatusCode, body)
	}

	var out createResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("salesforce: failed to decode response: %w", err)
	}
	if out.ID == "" {
		return "", errors.New("salesforce: lead created without id")
	}
	return out.ID, nil
}

// LeadStatus reads the Status field of a Lead sObject.
func (c *Client) LeadStatus(ctx context.Context, token, instanceURL, id string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, leadsURL(instanceURL)+id, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("salesforce request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp.StatusCode, body)
	}

	var out struct {
		Status string `json:"Status"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("salesforce: failed to decode lead: %w", err)
	}
	return out.Status, nil
}

// statusError flattens the error array Salesforce usually returns.
func statusError(status int, body []byte) error {
	var errs []apiError
	if json.Unmarshal(body, &errs) == nil && len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, fmt.Sprintf("%s: %s", e.ErrorCode, e.Message))
		}
		body = []byte(strings.Join(msgs, "; "))
	}
	return resilience.FromStatus(service, status, body)
}
