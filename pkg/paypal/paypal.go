package paypal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// Verification is the gateway's answer for one transaction lookup.
type Verification struct {
	Verified bool
	Status   string
	Amount   decimal.Decimal
}

// Config holds PayPal API credentials.
type Config struct {
	BaseAPIURL   string
	ClientID     string
	ClientSecret string
}

// Client talks to the PayPal Orders v2 API.
type Client struct {
	httpClient   *http.Client
	baseAPIURL   string
	clientID     string
	clientSecret string
}

// NewClient creates a new PayPal client.
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseAPIURL:   cfg.BaseAPIURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
	}
}

func (c *Client) getAccessToken(ctx context.Context) (string, error) {
	auth := base64.StdEncoding.EncodeToString(
		[]byte(c.clientID + ":" + c.clientSecret),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseAPIURL+"/v1/oauth2/token",
		bytes.NewBufferString("grant_type=client_credentials"))
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("paypal token error %d: %s", resp.StatusCode, string(b))
	}

	var res struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	return res.AccessToken, nil
}

// transactionResult mirrors the fields of a PayPal order lookup that the
// verifier cares about.
type transactionResult struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Amount struct {
			CurrencyCode string `json:"currency_code"`
			Value        string `json:"value"`
		} `json:"amount"`
	} `json:"purchase_units"`
}

// VerifyTransaction looks a transaction up at PayPal and reports whether
// it is genuine and completed, along with the captured amount. A 404
// from PayPal means the transaction id is not genuine; that is reported
// as unverified, not as an error.
func (c *Client) VerifyTransaction(ctx context.Context, transactionID string) (*Verification, error) {
	accessToken, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get paypal access token: %w", err)
	}

	url := fmt.Sprintf("%s/v2/checkout/orders/%s", c.baseAPIURL, transactionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paypal verify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &Verification{Verified: false}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("paypal verify error %d: %s", resp.StatusCode, string(b))
	}

	var result transactionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode paypal response: %w", err)
	}

	verification := &Verification{
		Verified: result.Status == "COMPLETED",
		Status:   result.Status,
	}
	if len(result.PurchaseUnits) > 0 {
		amount, err := decimal.NewFromString(result.PurchaseUnits[0].Amount.Value)
		if err != nil {
			return nil, fmt.Errorf("parse paypal amount %q: %w", result.PurchaseUnits[0].Amount.Value, err)
		}
		verification.Amount = amount
	}
	return verification, nil
}
