package probe

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"restscout/internal/config"
)

// RESTTransport probes PostgREST-style data APIs where each resource is a
// path segment and row counts are capped with a limit query parameter.
// Credentials are injected at construction and never leave this type.
type RESTTransport struct {
	client    *http.Client
	baseURL   *url.URL
	apiKey    string
	authToken string
	headers   map[string]string
	userAgent string
}

// NewRESTTransport builds a transport from the provided options.
func NewRESTTransport(opts *config.Options) (*RESTTransport, error) {
	base, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", opts.URL, err)
	}
	if base.Scheme == "" {
		base.Scheme = "https"
	}
	base.Path = strings.TrimRight(base.Path, "/")

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		DialContext: (&net.Dialer{
			Timeout: opts.Timeout,
		}).DialContext,
		MaxIdleConnsPerHost: opts.Workers,
		MaxIdleConns:        opts.Workers,
	}

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", opts.Proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	}

	if !opts.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = "restscout/1.0"
	}

	return &RESTTransport{
		client:    client,
		baseURL:   base,
		apiKey:    opts.APIKey,
		authToken: opts.AuthToken,
		headers:   opts.Headers,
		userAgent: ua,
	}, nil
}

// Probe sends one GET for the named resource, capped to limit rows.
// Non-2xx responses are returned as data with the matching StatusClass;
// only transport-level failures surface as errors.
func (t *RESTTransport) Probe(ctx context.Context, resource string, limit int) (*Response, error) {
	target := t.baseURL.String() + "/" + url.PathEscape(resource)
	if limit > 0 {
		target += "?limit=" + strconv.Itoa(limit)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Accept", "application/json")
	if t.apiKey != "" {
		req.Header.Set("apikey", t.apiKey)
	}
	if t.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.authToken)
	}
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out := &Response{
		Class:      classifyStatus(resp.StatusCode),
		StatusCode: resp.StatusCode,
	}

	switch out.Class {
	case StatusSuccess:
		rows, err := decodeRows(resp.Body)
		if err != nil {
			out.Detail = fmt.Sprintf("malformed response body: %v", err)
			return out, nil
		}
		out.Rows = rows
	case StatusAuthRequired:
		out.Detail = "authentication required"
	case StatusForbidden:
		out.Detail = "access forbidden"
	case StatusNotFound:
		out.Detail = "resource not found"
	default:
		out.Detail = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}

	return out, nil
}

// classifyStatus maps this backend's HTTP status conventions to the
// backend-agnostic StatusClass taxonomy. Targeting a different gateway
// means changing only this function.
func classifyStatus(code int) StatusClass {
	switch {
	case code >= 200 && code < 300:
		return StatusSuccess
	case code == http.StatusUnauthorized:
		return StatusAuthRequired
	case code == http.StatusForbidden:
		return StatusForbidden
	case code == http.StatusNotFound:
		return StatusNotFound
	default:
		return StatusOther
	}
}

// decodeRows parses the body as a JSON record collection. Numbers are kept
// as json.Number so schema inference can tell integers from floats. A JSON
// array is the normal shape; a single object is wrapped as a one-row
// collection since some gateways return bare objects for single-row reads.
func decodeRows(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return nil, fmt.Errorf("expected JSON array or object, got %v", tok)
	}

	switch delim {
	case '[':
		rows := []Record{}
		for dec.More() {
			var rec Record
			if err := dec.Decode(&rec); err != nil {
				return nil, err
			}
			rows = append(rows, rec)
		}
		return rows, nil
	case '{':
		// Re-decode the whole body as a single record. The decoder has
		// already consumed the opening brace, so collect fields manually.
		rec := Record{}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("expected object key, got %v", keyTok)
			}
			var val any
			if err := dec.Decode(&val); err != nil {
				return nil, err
			}
			rec[key] = val
		}
		return []Record{rec}, nil
	default:
		return nil, fmt.Errorf("unexpected JSON delimiter %v", delim)
	}
}
