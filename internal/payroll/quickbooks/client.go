// Package quickbooks provides the live QuickBooks Online payroll source and
// a deterministic mock used when credentials are absent.
package quickbooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/core"
)

const (
	baseURLSandbox    = "https://sandbox-quickbooks.api.intuit.com"
	baseURLProduction = "https://quickbooks.api.intuit.com"
)

// Client talks to the QuickBooks Online API.
//
// Payroll detail beyond journal-entry level may require a QuickBooks Payroll
// subscription; this client maps what the accounting API exposes and returns
// whatever subset it can.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	companyID   string
}

// NewClient creates a QuickBooks client for the given company. environment is
// "sandbox" or "production".
func NewClient(accessToken, companyID, environment string) *Client {
	base := baseURLSandbox
	if environment == "production" {
		base = baseURLProduction
	}
	return &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     base,
		accessToken: accessToken,
		companyID:   companyID,
	}
}

func (c *Client) query(ctx context.Context, q string, out any) error {
	u := fmt.Sprintf("%s/v3/company/%s/query?query=%s", c.baseURL, c.companyID, url.QueryEscape(q))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("quickbooks request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("quickbooks status %d: %s", resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode quickbooks response: %w", err)
	}
	return nil
}

type employeeQueryResponse struct {
	QueryResponse struct {
		Employee []struct {
			ID          string `json:"Id"`
			DisplayName string `json:"DisplayName"`
			GivenName   string `json:"GivenName"`
			FamilyName  string `json:"FamilyName"`
			Department  string `json:"Department"`
			Active      bool   `json:"Active"`
		} `json:"Employee"`
	} `json:"QueryResponse"`
}

// GetEmployees retrieves the employee roster.
func (c *Client) GetEmployees(ctx context.Context) ([]core.Employee, error) {
	var resp employeeQueryResponse
	if err := c.query(ctx, "SELECT * FROM Employee MAXRESULTS 1000", &resp); err != nil {
		return nil, err
	}

	employees := make([]core.Employee, 0, len(resp.QueryResponse.Employee))
	for _, e := range resp.QueryResponse.Employee {
		employees = append(employees, core.Employee{
			ID:          e.ID,
			DisplayName: e.DisplayName,
			GivenName:   e.GivenName,
			FamilyName:  e.FamilyName,
			Department:  e.Department,
			Active:      e.Active,
		})
	}
	return employees, nil
}

type purchaseQueryResponse struct {
	QueryResponse struct {
		Purchase []struct {
			ID       string  `json:"Id"`
			TotalAmt float64 `json:"TotalAmt"`
			TxnDate  string  `json:"TxnDate"`
			EntityRef struct {
				Value string `json:"value"`
				Name  string `json:"name"`
			} `json:"EntityRef"`
			DepartmentRef struct {
				Name string `json:"name"`
			} `json:"DepartmentRef"`
		} `json:"Purchase"`
	} `json:"QueryResponse"`
}

// GetPayrollItems retrieves payroll-related transactions for the date range
// and maps them to line items. Categories the API cannot serve are simply
// absent from the result.
func (c *Client) GetPayrollItems(ctx context.Context, start, end time.Time) ([]core.PayrollLineItem, error) {
	q := fmt.Sprintf(
		"SELECT * FROM Purchase WHERE TxnDate >= '%s' AND TxnDate <= '%s' MAXRESULTS 1000",
		start.Format("2006-01-02"), end.Format("2006-01-02"))

	var resp purchaseQueryResponse
	if err := c.query(ctx, q, &resp); err != nil {
		return nil, err
	}

	items := make([]core.PayrollLineItem, 0, len(resp.QueryResponse.Purchase))
	for _, p := range resp.QueryResponse.Purchase {
		date, err := time.Parse("2006-01-02", p.TxnDate)
		if err != nil {
			continue
		}
		items = append(items, core.PayrollLineItem{
			ID:           p.ID,
			Name:         "Payroll - " + p.EntityRef.Name,
			Kind:         core.ItemSalary,
			Amount:       decimal.NewFromFloat(p.TotalAmt),
			EmployeeID:   p.EntityRef.Value,
			EmployeeName: p.EntityRef.Name,
			Department:   p.DepartmentRef.Name,
			Date:         date,
		})
	}
	return items, nil
}
