// Package integration holds clients for the other service in the pair.
package integration

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskforge/taskforge/internal/api/metrics"
)

const checkPath = "/auth/check"

// AuthClient performs the synchronous token check against the auth service.
// Every ambiguous outcome (network error, timeout, non-200) reports false:
// the check fails closed, denying rather than granting.
type AuthClient struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

func NewAuthClient(baseURL string, timeout time.Duration, log zerolog.Logger) *AuthClient {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &AuthClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *AuthClient) CheckToken(ctx context.Context, publicID, token string) bool {
	q := url.Values{}
	q.Set("public_user_id", publicID)
	q.Set("token", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+checkPath+"?"+q.Encode(), nil)
	if err != nil {
		c.log.Error().Err(err).Msg("token check request build failed")
		metrics.RemoteTokenChecksTotal.WithLabelValues("denied").Inc()
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("public_id", publicID).Msg("token check failed, denying")
		metrics.RemoteTokenChecksTotal.WithLabelValues("denied").Inc()
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RemoteTokenChecksTotal.WithLabelValues("denied").Inc()
		return false
	}
	metrics.RemoteTokenChecksTotal.WithLabelValues("allowed").Inc()
	return true
}
