// Package reqparse extracts the target URL and headers from a raw HTTP
// request capture, so auth headers (apikey, bearer token, cookies) can be
// lifted from an intercepted request instead of typed out by hand.
package reqparse

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// ParsedRequest holds the extracted data from a raw HTTP request file.
type ParsedRequest struct {
	URL     string // base URL reconstructed from Host + request line
	Headers map[string]string
}

// ParseFile reads a raw HTTP request (e.g. a proxy export) and extracts
// the base URL and all headers.
func ParseFile(path string) (*ParsedRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening request file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024) // 1MB lines for large tokens

	// Request line: GET /rest/v1/users HTTP/1.1
	if !sc.Scan() {
		return nil, fmt.Errorf("request file is empty")
	}
	requestLine := strings.TrimSpace(sc.Text())
	parts := strings.SplitN(requestLine, " ", 3)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid request line: %q", requestLine)
	}
	requestPath := parts[1]

	// Headers until blank line.
	headers := make(map[string]string)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		colonIdx := strings.Index(line, ":")
		if colonIdx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:colonIdx])
		value := strings.TrimSpace(line[colonIdx+1:])
		headers[key] = value
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading request file: %w", err)
	}

	// Some proxies write a full URL into the request line.
	if strings.HasPrefix(requestPath, "http://") || strings.HasPrefix(requestPath, "https://") {
		parsedURL, err := url.Parse(requestPath)
		if err != nil {
			return nil, fmt.Errorf("invalid URL in request line: %w", err)
		}
		return &ParsedRequest{
			URL:     parsedURL.Scheme + "://" + parsedURL.Host + strings.TrimRight(parsedURL.Path, "/"),
			Headers: headers,
		}, nil
	}

	host, ok := headers["Host"]
	if !ok {
		return nil, fmt.Errorf("request file missing Host header")
	}

	// Data APIs are effectively always TLS; honor an explicit :80 though.
	scheme := "https"
	if strings.HasSuffix(host, ":80") {
		scheme = "http"
	}

	return &ParsedRequest{
		URL:     scheme + "://" + host + strings.TrimRight(requestPath, "/"),
		Headers: headers,
	}, nil
}
