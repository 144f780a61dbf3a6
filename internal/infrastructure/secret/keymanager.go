// Package secret resolves the session-cache connection settings from the
// platform key manager at process startup.
package secret

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"identity-hub/internal/domain"
)

// KeyManagerClient fetches secrets from the remote key manager.
// Implements domain.SecretSource. The manager returns each secret wrapped
// as {"body":{"secret":"<value>"}}; the cache connection secret is a
// "host:port:database" triple and the password is a separate secret.
type KeyManagerClient struct {
	infoURL     string
	passwordURL string
	httpClient  *http.Client
}

// NewKeyManagerClient creates a key manager client with a bounded timeout.
func NewKeyManagerClient(infoURL, passwordURL string, timeout time.Duration) *KeyManagerClient {
	return &KeyManagerClient{
		infoURL:     infoURL,
		passwordURL: passwordURL,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// secretEnvelope is the key manager response wrapper.
type secretEnvelope struct {
	Body struct {
		Secret string `json:"secret"`
	} `json:"body"`
}

// CacheSettings resolves host, port, database and password. Any transport
// failure or malformed secret is fatal to startup; there is no request-time
// recovery path.
func (c *KeyManagerClient) CacheSettings(ctx context.Context) (*domain.CacheSettings, error) {
	info, err := c.fetchSecret(ctx, c.infoURL)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(info, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: connection secret is not a host:port:database triple", domain.ErrSecretRetrieval)
	}
	port, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid port %q", domain.ErrSecretRetrieval, parts[1])
	}
	database, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid database %q", domain.ErrSecretRetrieval, parts[2])
	}

	password, err := c.fetchSecret(ctx, c.passwordURL)
	if err != nil {
		return nil, err
	}

	return &domain.CacheSettings{
		Host:     parts[0],
		Port:     port,
		Database: database,
		Password: password,
	}, nil
}

func (c *KeyManagerClient) fetchSecret(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSecretRetrieval, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSecretRetrieval, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: key manager returned status %d", domain.ErrSecretRetrieval, resp.StatusCode)
	}

	var envelope secretEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSecretRetrieval, err)
	}
	if envelope.Body.Secret == "" {
		return "", fmt.Errorf("%w: empty secret in response", domain.ErrSecretRetrieval)
	}

	return envelope.Body.Secret, nil
}
