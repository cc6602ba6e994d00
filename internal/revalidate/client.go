package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client asks the public site to rebuild a careers page after a publish.
// A client without a URL does nothing.
type Client struct {
	url        string
	secret     string
	httpClient *http.Client
}

func NewClient(url, secret string) *Client {
	return &Client{
		url:    url,
		secret: secret,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.url != ""
}

type Request struct {
	Slug string `json:"slug"`
	Path string `json:"path"`
}

// Revalidate posts the page slug and path to the configured webhook
func (c *Client) Revalidate(ctx context.Context, slug string) error {
	if !c.Enabled() {
		return nil
	}

	body, err := json.Marshal(Request{
		Slug: slug,
		Path: "/" + slug + "/careers",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.secret != "" {
		req.Header.Set("X-Revalidate-Secret", c.secret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf(
			"revalidate error: status=%d body=%s",
			resp.StatusCode,
			string(b),
		)
	}

	return nil
}
