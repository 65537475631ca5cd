// internal/common/zoho/crm.go
package zoho

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "https://www.zohoapis.com/crm/v3"

type CRMClient struct {
	oauthToken string
	baseURL    string
	httpClient *http.Client
}

// Lead is a Zoho CRM Leads record. Fields prefixed Lead_ beyond the stock
// ones are custom fields on the Leads module.
type Lead struct {
	ID            string `json:"id,omitempty"`
	LastName      string `json:"Last_Name"`
	Company       string `json:"Company,omitempty"`
	Email         string `json:"Email,omitempty"`
	Industry      string `json:"Industry,omitempty"`
	Country       string `json:"Country,omitempty"`
	LeadSource    string `json:"Lead_Source,omitempty"`
	Description   string `json:"Description,omitempty"`
	LeadScore     int    `json:"Lead_Score"`
	ModelScore    int    `json:"Model_Score"`
	BudgetBand    string `json:"Budget_Band,omitempty"`
	Authority     string `json:"Authority,omitempty"`
	Urgency       string `json:"Urgency,omitempty"`
	DataReadiness string `json:"Data_Readiness,omitempty"`
	StackMaturity string `json:"Stack_Maturity,omitempty"`
	SessionID     string `json:"Session_ID,omitempty"`
}

type recordResponse struct {
	Data []struct {
		Code    string `json:"code"`
		Details struct {
			ID string `json:"id"`
		} `json:"details"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"data"`
}

func NewCRMClient(baseURL, oauthToken string) *CRMClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &CRMClient{
		oauthToken: oauthToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *CRMClient) Configured() bool {
	return c != nil && c.oauthToken != ""
}

// CreateLead inserts a lead and returns its Zoho record id.
func (c *CRMClient) CreateLead(ctx context.Context, lead *Lead) (string, error) {
	return c.writeLead(ctx, http.MethodPost, c.baseURL+"/Leads", lead)
}

// UpdateLead overwrites the given fields on an existing lead.
func (c *CRMClient) UpdateLead(ctx context.Context, leadID string, lead *Lead) error {
	_, err := c.writeLead(ctx, http.MethodPut, fmt.Sprintf("%s/Leads/%s", c.baseURL, leadID), lead)
	return err
}

func (c *CRMClient) writeLead(ctx context.Context, method, url string, lead *Lead) (string, error) {
	payload := map[string]interface{}{
		"data": []Lead{*lead},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Zoho-oauthtoken "+c.oauthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("zoho %s %s failed (status %d): %s", method, url, resp.StatusCode, string(body))
	}

	var parsed recordResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return "", fmt.Errorf("no data in response")
	}
	if parsed.Data[0].Status != "success" {
		return "", fmt.Errorf("lead write failed: %s (%s)", parsed.Data[0].Message, parsed.Data[0].Code)
	}

	return parsed.Data[0].Details.ID, nil
}
