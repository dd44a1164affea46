// Package api is the client of the video backend's REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/reelfeed/reelfeed/auth"
	"github.com/reelfeed/reelfeed/config"
	"github.com/reelfeed/reelfeed/constant"
	"github.com/reelfeed/reelfeed/key"
	"github.com/reelfeed/reelfeed/log"
	"github.com/reelfeed/reelfeed/network"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const maxBodySize = 8 << 20

// TokenSource returns the bearer token, or "" when there is none.
type TokenSource func() (string, error)

// StaticToken always returns token.
func StaticToken(token string) TokenSource {
	return func() (string, error) { return token, nil }
}

type Options struct {
	BaseURL    string
	Token      TokenSource
	HTTPClient *http.Client
	// RateLimit is in requests per second. Zero disables limiting.
	RateLimit float64
}

type Client struct {
	base    *url.URL
	token   TokenSource
	http    *http.Client
	limiter *rate.Limiter
}

func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", opts.BaseURL)
	}

	c := &Client{
		base:  base,
		token: opts.Token,
		http:  opts.HTTPClient,
	}

	if c.token == nil {
		c.token = StaticToken("")
	}
	if c.http == nil {
		c.http = network.Client
	}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), max(1, int(opts.RateLimit)))
	}

	return c, nil
}

// FromConfig builds a client from the api.* settings and the stored token.
func FromConfig() (*Client, error) {
	return New(Options{
		BaseURL:    viper.GetString(key.APIBaseURL),
		Token:      auth.Token,
		HTTPClient: network.WithTimeout(config.Seconds(key.APITimeout)),
		RateLimit:  viper.GetFloat64(key.APIRateLimit),
	})
}

// do performs a request and returns the parsed JSON body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (gjson.Result, error) {
	token, err := c.token()
	if err != nil {
		return gjson.Result{}, fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		return gjson.Result{}, ErrNoToken
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return gjson.Result{}, err
		}
	}

	// path segments are escaped by the callers
	u, err := url.Parse(c.base.String() + path)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("build url: %w", err)
	}
	u.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return gjson.Result{}, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return gjson.Result{}, err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constant.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	log.WithFields(logrus.Fields{
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode,
		"elapsed": time.Since(started).Round(time.Millisecond),
	}).Debug("api request")

	jsonBody := gjson.ValidBytes(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Method: method, Path: path, Code: resp.StatusCode}
		if jsonBody {
			se.Message = gjson.GetBytes(raw, "message").String()
		}
		return gjson.Result{}, se
	}

	if !jsonBody {
		return gjson.Result{}, fmt.Errorf("%s %s (%s): %w", method, path, resp.Header.Get("Content-Type"), ErrNotJSON)
	}

	return gjson.ParseBytes(raw), nil
}

// envelope returns the first array found under one of keys.
func envelope(body gjson.Result, keys ...string) (gjson.Result, error) {
	for _, k := range keys {
		if v := body.Get(k); v.IsArray() {
			return v, nil
		}
	}

	return gjson.Result{}, fmt.Errorf("expected one of %s: %w", strings.Join(keys, ", "), ErrMalformed)
}
