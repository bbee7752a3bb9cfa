// Package paystack is a thin client for the slice of the Paystack API the
// engine consumes: transfer recipients and transfers on the payout side,
// stored-authorization charges on the collection side, and webhook
// signature verification.
package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Config carries the credentials for one payout integration. It is resolved
// once at construction and passed in explicitly; the client never reads
// process environment.
type Config struct {
	SecretKey string
	BaseURL   string
}

type Client struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		secretKey: cfg.SecretKey,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// envelope is Paystack's standard response wrapper.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer

	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	if resp.StatusCode >= 400 || !env.Status {
		return fmt.Errorf("paystack %s %s: %s (http %d)", method, path, env.Message, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decoding response data: %w", err)
		}
	}

	return nil
}

type RecipientParams struct {
	Name          string
	AccountNumber string
	BankCode      string
}

// CreateRecipient registers a bank destination and returns its recipient
// code, which callers cache on the merchant record.
func (c *Client) CreateRecipient(ctx context.Context, params RecipientParams) (string, error) {
	body := map[string]string{
		"type":           "nuban",
		"name":           params.Name,
		"account_number": params.AccountNumber,
		"bank_code":      params.BankCode,
		"currency":       "NGN",
	}

	var data struct {
		RecipientCode string `json:"recipient_code"`
	}

	if err := c.call(ctx, http.MethodPost, "/transferrecipient", body, &data); err != nil {
		return "", err
	}

	if data.RecipientCode == "" {
		return "", errors.New("paystack returned empty recipient code")
	}

	return data.RecipientCode, nil
}

type TransferParams struct {
	Amount        int64 // minor units
	RecipientCode string
	Reference     string
	Reason        string
}

type Transfer struct {
	TransferCode string `json:"transfer_code"`
	Reference    string `json:"reference"`
	Status       string `json:"status"`
}

// InitiateTransfer requests a payout. A non-error return means the request
// was accepted, not that the money settled; settlement arrives via webhook.
// Paystack rejects a reused reference with the original outcome, which is
// what makes a retried initiation safe.
func (c *Client) InitiateTransfer(ctx context.Context, params TransferParams) (*Transfer, error) {
	body := map[string]any{
		"source":    "balance",
		"amount":    params.Amount,
		"recipient": params.RecipientCode,
		"reference": params.Reference,
		"reason":    params.Reason,
	}

	var t Transfer
	if err := c.call(ctx, http.MethodPost, "/transfer", body, &t); err != nil {
		return nil, err
	}

	return &t, nil
}

// VerifyTransfer fetches the current status of a transfer by reference.
func (c *Client) VerifyTransfer(ctx context.Context, reference string) (*Transfer, error) {
	var t Transfer
	if err := c.call(ctx, http.MethodGet, "/transfer/verify/"+reference, nil, &t); err != nil {
		return nil, err
	}

	return &t, nil
}

type ChargeParams struct {
	AuthorizationCode string
	Email             string
	Amount            int64
	Reference         string
}

type Charge struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
}

// ChargeAuthorization debits a stored card credential.
func (c *Client) ChargeAuthorization(ctx context.Context, params ChargeParams) (*Charge, error) {
	body := map[string]any{
		"authorization_code": params.AuthorizationCode,
		"email":              params.Email,
		"amount":             params.Amount,
		"reference":          params.Reference,
	}

	var ch Charge
	if err := c.call(ctx, http.MethodPost, "/transaction/charge_authorization", body, &ch); err != nil {
		return nil, err
	}

	if ch.Status != "success" {
		return nil, fmt.Errorf("charge %s declined with status %q", params.Reference, ch.Status)
	}

	return &ch, nil
}

// VerifyTransaction fetches the settled state of a charge by reference.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*Charge, error) {
	var ch Charge
	if err := c.call(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &ch); err != nil {
		return nil, err
	}

	return &ch, nil
}

// VerifySignature checks the x-paystack-signature header: an HMAC-SHA512 of
// the raw request body keyed with the integration secret.
func (c *Client) VerifySignature(payload []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(payload)

	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
