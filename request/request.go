package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	maxAttempts  = 3
	retryBackoff = 300 * time.Millisecond
)

// Validator is implemented by response shapes that check themselves
// after decoding. A failing Validate fails the whole call.
type Validator interface {
	Validate() error
}

// Error is the request layer failure type. Status is zero for
// transport and shape failures.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
	}
	return "request failed: " + e.Message
}

type Client struct {
	baseURL string
	hc      *http.Client
	cache   *Cache
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 15 * time.Second},
		cache:   NewCache(),
	}
}

// NewRequest starts a builder for one call. The path may be absolute
// (another host, e.g. the geolocation service) or relative to the
// client base URL.
func (c *Client) NewRequest(method, path string) *Request {
	url := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		url = c.baseURL + path
	}
	return &Request{client: c, method: method, url: url}
}

type Request struct {
	client   *Client
	method   string
	url      string
	token    string
	body     interface{}
	useCache bool
	useRetry bool
}

func (r *Request) WithCache() *Request {
	r.useCache = true
	return r
}

func (r *Request) WithRetry() *Request {
	r.useRetry = true
	return r
}

func (r *Request) Token(token string) *Request {
	r.token = token
	return r
}

func (r *Request) Body(body interface{}) *Request {
	r.body = body
	return r
}

// Send performs the call and decodes the response body into out. When
// out implements Validator the decoded value is checked before it is
// handed back; malformed data fails the call instead of leaking out.
func (r *Request) Send(ctx context.Context, out interface{}) error {
	var payload []byte
	if r.body != nil {
		var err error
		payload, err = json.Marshal(r.body)
		if err != nil {
			return &Error{Message: "encoding request body: " + err.Error()}
		}
	}

	key := cacheKey(r.method, r.url, payload)
	if r.useCache {
		if raw, ok := r.client.cache.Get(key); ok {
			return decode(raw, out)
		}
	}

	raw, err := r.do(ctx, payload)
	if err != nil {
		return err
	}
	if err := decode(raw, out); err != nil {
		return err
	}
	if r.useCache {
		r.client.cache.Set(key, raw)
	}
	return nil
}

func (r *Request) do(ctx context.Context, payload []byte) ([]byte, error) {
	attempts := 1
	if r.useRetry {
		attempts = maxAttempts
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := retryBackoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, &Error{Message: ctx.Err().Error()}
			case <-time.After(backoff):
			}
		}

		raw, retryable, err := r.once(ctx, payload)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, lastErr
}

func (r *Request) once(ctx context.Context, payload []byte) ([]byte, bool, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return nil, false, &Error{Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	res, err := r.client.hc.Do(req)
	if err != nil {
		return nil, true, &Error{Message: err.Error()}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, true, &Error{Message: "reading response: " + err.Error()}
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		retryable := res.StatusCode >= http.StatusInternalServerError || res.StatusCode == http.StatusTooManyRequests
		return nil, retryable, &Error{Status: res.StatusCode, Message: errorMessage(raw, res.Status)}
	}
	return raw, false, nil
}

func decode(raw []byte, out interface{}) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Message: "decoding response: " + err.Error()}
	}
	if v, ok := out.(Validator); ok {
		if err := v.Validate(); err != nil {
			return &Error{Message: "unexpected response shape: " + err.Error()}
		}
	}
	return nil
}

func errorMessage(raw []byte, fallback string) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return fallback
}
