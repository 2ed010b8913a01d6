// Package sbanken reads card purchases from the Sbanken bank API.
package sbanken

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"spending/internal/core"

	"golang.org/x/oauth2/clientcredentials"
)

const (
	accountsPath     = "/exec.bank/api/v1/Accounts"
	transactionsPath = "/exec.bank/api/v1/Transactions/"
	requestTimeout   = 10 * time.Second
)

// Config holds the API credentials and endpoints.
type Config struct {
	ClientID     string
	ClientSecret string
	CustomerID   string
	APIURL       string
	TokenURL     string
}

type Client struct {
	http       *http.Client
	apiURL     string
	customerID string
}

// NewClient returns a client that authenticates with OAuth2 client
// credentials.
func NewClient(ctx context.Context, cfg Config) *Client {
	conf := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	hc := conf.Client(ctx)
	hc.Timeout = requestTimeout
	return NewClientWithHTTP(hc, cfg.APIURL, cfg.CustomerID)
}

// NewClientWithHTTP uses hc as is.
func NewClientWithHTTP(hc *http.Client, apiURL, customerID string) *Client {
	return &Client{http: hc, apiURL: strings.TrimRight(apiURL, "/"), customerID: customerID}
}

type Account struct {
	ID          string  `json:"accountId"`
	Number      string  `json:"accountNumber"`
	CustomerID  string  `json:"ownerCustomerId"`
	Name        string  `json:"name"`
	Type        string  `json:"accountType"`
	Available   float64 `json:"available"`
	Balance     float64 `json:"balance"`
	CreditLimit float64 `json:"creditLimit"`
}

type transaction struct {
	AccountingDate Time         `json:"accountingDate"`
	Amount         float64      `json:"amount"`
	Text           string       `json:"text"`
	Type           string       `json:"transactionType"`
	IsReservation  bool         `json:"isReservation"`
	CardDetails    *CardDetails `json:"cardDetails"`
}

// CardDetails describes the card side of a transaction.
type CardDetails struct {
	TransactionID    string    `json:"transactionId"`
	Card             string    `json:"cardNumber"`
	CurrencyAmount   float64   `json:"currencyAmount"`
	CurrencyRate     float64   `json:"currencyRate"`
	CategoryCode     string    `json:"merchantCategoryCode"`
	CategoryDesc     string    `json:"merchantCategoryDescription"`
	City             string    `json:"merchantCity"`
	Merchant         string    `json:"merchantName"`
	OriginalCurrency string    `json:"originalCurrencyCode"`
	PurchaseDate     Time      `json:"purchaseDate"`
}

// Purchase converts the card details to a purchase on account.
func (cd CardDetails) Purchase(account string) core.Purchase {
	return core.Purchase{
		ID:       cd.TransactionID,
		Date:     core.DateOf(cd.PurchaseDate.Time),
		NOK:      core.ToNOK(cd.CurrencyAmount, cd.CurrencyRate),
		Account:  account,
		Category: cd.CategoryDesc,
		Location: cd.City,
		Vendor:   cd.Merchant,
	}
}

// Time accepts the API's timestamps, which may lack a zone offset.
type Time struct {
	time.Time
}

var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func (t *Time) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	for _, layout := range timeLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v
			return nil
		}
	}
	return fmt.Errorf("parse time %q", s)
}

func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	var res struct {
		Items []Account `json:"items"`
	}
	if err := c.get(ctx, accountsPath, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

// Transactions returns the card details of the account's transactions.
// Transactions without card details are left out.
func (c *Client) Transactions(ctx context.Context, accountID string) ([]CardDetails, error) {
	var res struct {
		Length *int          `json:"availableItems"`
		Items  []transaction `json:"items"`
	}
	if err := c.get(ctx, transactionsPath+accountID, &res); err != nil {
		return nil, err
	}
	if res.Length == nil {
		return nil, errors.New(`missing field "availableItems" in response data`)
	}

	var out []CardDetails
	for _, t := range res.Items {
		if t.CardDetails != nil {
			out = append(out, *t.CardDetails)
		}
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("customerId", c.customerID)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling Sbanken API: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode > 399 {
		bs, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return fmt.Errorf("status %d: %s", res.StatusCode, strings.TrimSpace(string(bs)))
	}
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("unmarshaling json: %w", err)
	}
	return nil
}
