// Package builder invokes the per-device build service that produces the
// client executable.
package builder

import (
	"bytes"
	"context"
	"encoding/base64"
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

// BuildRequest describes one device build.
type BuildRequest struct {
	Platform       models.Platform
	DeviceID       string
	Cert           string
	Key            string
	SealedGroupKey []byte
}

// Artifact is a built binary plus the key that wraps its embedded secrets.
// EncryptionKey is base64 text, stored as received.
type Artifact struct {
	Binary        []byte
	EncryptionKey string
}

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

type buildRequest struct {
	Platform string `json:"platform"`
	DeviceID string `json:"device_id"`
	Cert     string `json:"cert"`
	Key      string `json:"key"`
	GroupKey string `json:"encrypted_group_key"`
}

type buildResponse struct {
	Binary        string `json:"binary"`
	EncryptionKey string `json:"encryption_key"`
}

// Build asks the build service for a device binary.
//
// A (nil, nil) return is the failure sentinel: the service answered but did
// not produce a usable artifact (non-2xx status, missing or undecodable
// fields). A non-nil error means the service could not be reached.
func (c *Client) Build(ctx context.Context, br BuildRequest) (*Artifact, error) {
	data, err := json.Marshal(buildRequest{
		Platform: string(br.Platform),
		DeviceID: br.DeviceID,
		Cert:     br.Cert,
		Key:      br.Key,
		GroupKey: base64.StdEncoding.EncodeToString(br.SealedGroupKey),
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/build", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("service token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	}

	var payload buildResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, nil
	}
	if payload.Binary == "" || payload.EncryptionKey == "" {
		return nil, nil
	}

	bin, err := base64.StdEncoding.DecodeString(payload.Binary)
	if err != nil || len(bin) == 0 {
		return nil, nil
	}

	return &Artifact{Binary: bin, EncryptionKey: payload.EncryptionKey}, nil
}
