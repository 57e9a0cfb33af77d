// Package httpclient wraps outbound json api calls.
//
// Every request uses a fresh fiber agent, there is no connection reuse between calls and no
// automatic retry.
package httpclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultTimeout is used when New gets no timeout.
const DefaultTimeout = 10 * time.Second

// Client issues requests relative to an optional base url.
type Client struct {
	BaseURL        string
	Timeout        time.Duration
	DefaultHeaders map[string]string
}

// Options are the optional parts of a request.
type Options struct {
	Params  map[string]any    // query string parameters
	Data    any               // json encoded request body
	Headers map[string]string // merged over the default headers
	Timeout time.Duration     // overrides the client timeout if > 0
}

// New returns a client sending and accepting json.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		BaseURL: baseURL,
		Timeout: timeout,
		DefaultHeaders: map[string]string{
			fiber.HeaderContentType: fiber.MIMEApplicationJSON,
			fiber.HeaderAccept:      fiber.MIMEApplicationJSON,
		},
	}
}

// Get issues a GET request.
func (c *Client) Get(rawURL string, params map[string]any, headers map[string]string) (any, error) {
	return c.Request(fiber.MethodGet, rawURL, Options{Params: params, Headers: headers})
}

// Post issues a POST request with data as json body.
func (c *Client) Post(rawURL string, data any, params map[string]any, headers map[string]string) (any, error) {
	return c.Request(fiber.MethodPost, rawURL, Options{Params: params, Data: data, Headers: headers})
}

// ResolveURL prefixes rawURL with the base url unless rawURL is already absolute.
func (c *Client) ResolveURL(rawURL string) string {
	if c.BaseURL != "" && !strings.HasPrefix(rawURL, "http") {
		return c.BaseURL + rawURL
	}

	return rawURL
}

// Request issues one request. A json response is decoded, any other response is returned as
// map{"text": body}. 4xx and 5xx responses return a *StatusError, transport errors are returned
// as they are. Both are logged.
func (c *Client) Request(method, rawURL string, opts Options) (any, error) {
	fullURL := c.ResolveURL(rawURL)

	timeout := c.Timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(fullURL)

	if len(opts.Params) > 0 {
		a.QueryString(encodeParams(string(req.URI().QueryString()), opts.Params))
	}

	if opts.Data != nil {
		body, err := json.Marshal(opts.Data)
		if err != nil {
			fiber.ReleaseAgent(a)
			return nil, errors.Wrap(err, "failed to encode request body")
		}

		a.Body(body)
	}

	for k, v := range c.mergeHeaders(opts.Headers) {
		a.Set(k, v)
	}

	a.Timeout(timeout)

	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		log.Error().Err(err).Str("url", fullURL).Str("method", method).Msg("request error")

		return nil, err //nolint:wrapcheck
	}

	resp := fiber.AcquireResponse()
	defer fiber.ReleaseResponse(resp)

	a.SetResponse(resp)

	// Bytes releases the agent
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		err := errs[0]

		log.Error().Err(err).Str("url", fullURL).Str("method", method).Msg("request error")

		return nil, err
	}

	log.Debug().Str("url", fullURL).Str("method", method).Int("status_code", code).Msg("http request")

	if code >= fiber.StatusBadRequest {
		statusErr := &StatusError{Method: method, URL: fullURL, StatusCode: code, Body: string(body)}
		log.Error().
			Str("url", fullURL).
			Str("method", method).
			Int("status_code", code).
			Str("body", statusErr.Body).
			Msg("http error")

		return nil, statusErr
	}

	if strings.HasPrefix(string(resp.Header.ContentType()), fiber.MIMEApplicationJSON) {
		if len(body) == 0 {
			return nil, ErrEmptyJSONBody
		}

		var out any
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, errors.Wrap(err, "failed to decode json response")
		}

		return out, nil
	}

	return map[string]any{"text": string(body)}, nil
}

func (c *Client) mergeHeaders(headers map[string]string) map[string]string {
	merged := make(map[string]string, len(c.DefaultHeaders)+len(headers))

	for k, v := range c.DefaultHeaders {
		merged[k] = v
	}

	for k, v := range headers {
		// header names are case insensitive, a caller header replaces the default
		for dk := range merged {
			if strings.EqualFold(dk, k) {
				delete(merged, dk)
			}
		}

		merged[k] = v
	}

	return merged
}

// encodeParams merges params into an existing query string.
func encodeParams(existing string, params map[string]any) string {
	values, err := url.ParseQuery(existing)
	if err != nil {
		values = url.Values{}
	}

	for k, v := range params {
		switch tv := v.(type) {
		case nil:
		case []string:
			for _, s := range tv {
				values.Add(k, s)
			}
		default:
			values.Add(k, fmt.Sprint(tv))
		}
	}

	return values.Encode()
}
