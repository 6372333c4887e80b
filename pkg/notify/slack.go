// Package notify publishes rendered home views back to the chat platform.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/valyala/fasthttp"

	"keepnote/pkg/logger"
	"keepnote/pkg/models"
)

// DefaultAPIURL is the platform web API base.
const DefaultAPIURL = "https://slack.com/api"

const defaultTimeout = 10 * time.Second

// Client posts views.publish calls with the configured bot token.
type Client struct {
	apiURL  string
	token   string
	timeout time.Duration
	hc      *fasthttp.Client
}

// New builds a Client. apiURL may be empty to use the platform default;
// timeout <= 0 selects a sane default.
func New(apiURL, token string, timeout time.Duration) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiURL:  apiURL,
		token:   token,
		timeout: timeout,
		hc:      &fasthttp.Client{},
	}
}

type publishResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// PublishHome publishes the view as userID's personalized home surface.
// The returned error is informational; callers log and suppress it, the
// inbound response is never affected.
func (c *Client) PublishHome(ctx context.Context, userID string, view models.View) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshal view: %w", err)
	}
	args := url.Values{}
	args.Set("token", c.token)
	args.Set("user_id", userID)
	args.Set("view", string(body))

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.apiURL + "/views.publish")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/x-www-form-urlencoded")
	req.SetBodyString(args.Encode())

	if err := c.hc.DoTimeout(req, resp, c.timeout); err != nil {
		return fmt.Errorf("views.publish request: %w", err)
	}
	if sc := resp.StatusCode(); sc < 200 || sc > 299 {
		return fmt.Errorf("views.publish status %d", sc)
	}
	var res publishResult
	if err := json.Unmarshal(resp.Body(), &res); err != nil {
		return fmt.Errorf("views.publish response: %w", err)
	}
	if !res.OK {
		return fmt.Errorf("views.publish rejected: %s", res.Error)
	}
	logger.Debug("home_view_published", "user", userID)
	return nil
}
