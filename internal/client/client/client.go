// Package client talks to the ShutterPro server over HTTP. It covers the
// credential check, invoice dispatch and the health probe, and keeps the
// bearer token obtained at login for subsequent calls.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/shutterpro/internal/client/models"
	"github.com/dmitrijs2005/shutterpro/internal/common"
)

var (
	// ErrUnavailable marks transport-level failures: the server could not
	// be reached or answered with something other than a verdict.
	ErrUnavailable = errors.New("server unavailable")
)

// HTTPClient is the API client. Not safe for concurrent use; the CLI drives
// it from a single goroutine.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	token   string
}

// NewHTTPClient returns a client for the given base URL, for example
// "http://localhost:8080".
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Company string `json:"company"`
		Phone   string `json:"phone"`
	} `json:"user"`
	Error string `json:"error"`
}

// Login submits the credentials. A 200 stores the bearer token and returns
// the user record; a 401 maps to common.ErrInvalidCredentials; anything the
// transport coughs up maps to ErrUnavailable.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.UserRecord, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.post(ctx, "/api/login", body, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, common.ErrInvalidCredentials
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", common.ErrorInternal, readError(resp.Body))
	default:
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var out loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}

	c.token = out.Token
	return &models.UserRecord{
		ID:      out.User.ID,
		Email:   out.User.Email,
		Name:    out.User.Name,
		Company: out.User.Company,
		Phone:   out.User.Phone,
	}, nil
}

// SendInvoiceRequest is the payload for the invoice dispatch endpoint. The
// PDF travels base64-encoded inside the JSON body.
type SendInvoiceRequest struct {
	To            string `json:"to"`
	Subject       string `json:"subject"`
	Message       string `json:"message"`
	InvoiceNumber string `json:"invoiceNumber"`
	PDFBase64     string `json:"pdfBase64,omitempty"`
}

type sendInvoiceResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// SendInvoice emails an invoice through the server. Requires a prior Login.
func (c *HTTPClient) SendInvoice(ctx context.Context, req SendInvoiceRequest) error {
	if c.token == "" {
		return common.ErrorUnauthorized
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.post(ctx, "/api/send-invoice", body, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", common.ErrorInternal, readError(resp.Body))
	default:
		return fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}
}

// Ping probes the health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/ping", nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// Close drops the stored token.
func (c *HTTPClient) Close() {
	c.token = ""
}

func (c *HTTPClient) post(ctx context.Context, path string, body []byte, auth bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

func readError(r io.Reader) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&e); err != nil || e.Error == "" {
		return "request rejected"
	}
	return e.Error
}
