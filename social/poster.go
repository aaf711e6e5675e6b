package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/battletechbands/backend/models"
)

// Poster delivers one composed message to one platform account.
// Implementations exist per wire protocol; the HTTP poster covers platforms
// that accept a bearer-authenticated JSON body.
type Poster interface {
	Post(ctx context.Context, account *models.SocialAccount, body string) (remoteID string, err error)
}

const (
	postTimeout    = 15 * time.Second
	maxRetries     = 3
	defaultBackoff = 2 * time.Second
)

// HTTPPoster posts JSON payloads to an account's configured endpoint.
type HTTPPoster struct {
	Client *http.Client
}

func NewHTTPPoster() *HTTPPoster {
	return &HTTPPoster{
		Client: &http.Client{Timeout: postTimeout},
	}
}

type postPayload struct {
	Status string `json:"status"`
}

type postResponse struct {
	ID string `json:"id"`
}

// Post delivers the message, retrying on 429 with the server's Retry-After
// when present and an exponential backoff otherwise.
func (p *HTTPPoster) Post(ctx context.Context, account *models.SocialAccount, body string) (string, error) {
	payload, err := json.Marshal(postPayload{Status: body})
	if err != nil {
		return "", fmt.Errorf("failed to encode post payload: %w", err)
	}

	backoff := defaultBackoff
	for attempt := 0; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, account.Endpoint, bytes.NewReader(payload))
		if err != nil {
			return "", fmt.Errorf("failed to build post request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+account.AccessToken)

		resp, err := p.Client.Do(req)
		if err != nil {
			return "", fmt.Errorf("post to %s failed: %w", account.Platform, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			wait := backoff
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if seconds, parseErr := strconv.Atoi(ra); parseErr == nil && seconds > 0 {
					wait = time.Duration(seconds) * time.Second
				}
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()

			if attempt == maxRetries {
				return "", fmt.Errorf("post to %s rate limited after %d attempts", account.Platform, attempt+1)
			}
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			backoff *= 2
			continue
		}

		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return "", fmt.Errorf("post to %s returned status %d", account.Platform, resp.StatusCode)
		}

		var parsed postResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			// some platforms return an empty body on success
			return "", nil
		}
		return parsed.ID, nil
	}
	return "", fmt.Errorf("post to %s exhausted retries", account.Platform)
}
