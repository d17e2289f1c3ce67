package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"bilancio/internal/core"
)

// ClientConfig holds the settings for the budgeting provider API client.
type ClientConfig struct {
	APIURL      string
	AccessToken string
	BudgetID    string
	Timeout     time.Duration // Default: 30 seconds
}

// Client is an HTTP client for the budgeting provider API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	budgetID    string
}

// NewClient creates a new provider API client.
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     config.APIURL,
		accessToken: config.AccessToken,
		budgetID:    config.BudgetID,
	}
}

// Accounts implements AccountReader.
func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	var resp accountsResponse
	if err := c.get(ctx, "accounts", &resp); err != nil {
		return nil, fmt.Errorf("fetch accounts: %w", err)
	}

	accounts := make([]Account, 0, len(resp.Data.Accounts))
	for _, a := range resp.Data.Accounts {
		accounts = append(accounts, Account{
			ID:      a.ID,
			Name:    a.Name,
			Balance: moneyFromMilliunits(a.Balance),
			Closed:  a.Closed,
			Deleted: a.Deleted,
		})
	}
	return accounts, nil
}

// Categories implements CategoryReader. Deleted and hidden categories are
// dropped here so callers never see them.
func (c *Client) Categories(ctx context.Context) ([]core.Category, error) {
	var resp categoriesResponse
	if err := c.get(ctx, "categories", &resp); err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}

	var categories []core.Category
	for _, group := range resp.Data.CategoryGroups {
		for _, wc := range group.Categories {
			cat := wc.toCore(group.ID, group.Name)
			if cat.Deleted || cat.Hidden {
				continue
			}
			categories = append(categories, cat)
		}
	}
	return categories, nil
}

// ScheduledTransactions implements ScheduledReader.
func (c *Client) ScheduledTransactions(ctx context.Context) ([]core.ScheduledTransaction, error) {
	var resp scheduledResponse
	if err := c.get(ctx, "scheduled_transactions", &resp); err != nil {
		return nil, fmt.Errorf("fetch scheduled transactions: %w", err)
	}

	txns := make([]core.ScheduledTransaction, 0, len(resp.Data.ScheduledTransactions))
	for _, wt := range resp.Data.ScheduledTransactions {
		txns = append(txns, wt.toCore())
	}
	return core.Flatten(txns), nil
}

func (c *Client) get(ctx context.Context, resource string, out any) error {
	endpoint := fmt.Sprintf("%s/budgets/%s/%s", c.baseURL, c.budgetID, resource)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.accessToken))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parseError parses an error response from the provider API.
func (c *Client) parseError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("provider API error (status %d): failed to read error response", resp.StatusCode)
	}

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return fmt.Errorf("provider API error (status %d): %s", resp.StatusCode, string(body))
	}

	if errResp.Error.Detail != "" {
		return fmt.Errorf("provider API error: %s - %s", errResp.Error.Name, errResp.Error.Detail)
	}
	return fmt.Errorf("provider API error: %s", errResp.Error.Name)
}
