// Package broker talks to the messaging broker's management API: it
// registers devices (issuing their certificate and key) and publishes
// per-user device settings.
package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/deviceprov/internal/server/models"
)

// TokenProvider supplies the bearer token attached to each request.
type TokenProvider interface {
	Token() (string, error)
}

// AddDeviceResult is the broker's answer to a registration. Cert and Key are
// only meaningful when StatusCode is 200; Body keeps the raw response for
// diagnostics.
type AddDeviceResult struct {
	StatusCode int
	Cert       string
	Key        string
	Body       string
}

// Client is an HTTP client for the broker API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
}

func NewClient(baseURL string, httpClient *http.Client, tokens TokenProvider) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
	}
}

type addDeviceRequest struct {
	UID string `json:"uid"`
}

type addDeviceResponse struct {
	Cert string `json:"cert"`
	Key  string `json:"key"`
}

// AddDevice registers a new device for uid. A non-nil error means the broker
// could not be reached; HTTP-level failures are reported via StatusCode.
func (c *Client) AddDevice(ctx context.Context, uid string) (*AddDeviceResult, error) {
	status, body, err := c.post(ctx, "/devices", addDeviceRequest{UID: uid})
	if err != nil {
		return nil, err
	}

	res := &AddDeviceResult{StatusCode: status, Body: string(body)}
	if status != http.StatusOK {
		return res, nil
	}

	var payload addDeviceResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		// treated as missing credentials by the caller
		return res, nil
	}
	res.Cert = payload.Cert
	res.Key = payload.Key
	return res, nil
}

type pubSettingsRequest struct {
	UID      string                       `json:"uid"`
	Settings []models.DeviceSettingsEntry `json:"settings"`
}

// PubSettings pushes the settings of every device of uid to the broker and
// returns the HTTP status code.
func (c *Client) PubSettings(ctx context.Context, settings []models.DeviceSettingsEntry, uid string) (int, error) {
	if settings == nil {
		settings = []models.DeviceSettingsEntry{}
	}
	status, _, err := c.post(ctx, "/settings", pubSettingsRequest{UID: uid, Settings: settings})
	return status, err
}

func (c *Client) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return 0, nil, fmt.Errorf("service token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("broker request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("broker response %s: %w", path, err)
	}

	return resp.StatusCode, body, nil
}
