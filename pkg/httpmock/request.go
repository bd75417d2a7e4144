package httpmock

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
)

// request is the canonical parsed shape spec.md §4.4 step 2 describes:
// uppercase method, URL-parsed pathname, the literal query string
// (leading "?" included when present), wire-case headers, and the
// fully buffered body.
type request struct {
	Method    string
	RawTarget string
	Path      string
	Query     string
	Version   string
	Headers   Headers
	Body      []byte
}

// readRequest parses one HTTP/1.1 request off r. Unlike net/http, it
// never folds header names through textproto.CanonicalMIMEHeaderKey —
// see Headers' doc comment for why that matters here. It supports
// Content-Length and "Transfer-Encoding: chunked" bodies, the two
// framings any real HTTP client in a test suite will produce.
func readRequest(r *bufio.Reader) (*request, error) {
	line, err := readCRLFLine(r)
	if err != nil {
		return nil, err
	}
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("httpmock: malformed request line %q", line)
	}

	req := &request{
		Method:    strings.ToUpper(parts[0]),
		RawTarget: parts[1],
		Version:   strings.TrimPrefix(parts[2], "HTTP/"),
	}

	u, err := url.ParseRequestURI(parts[1])
	if err != nil {
		return nil, fmt.Errorf("httpmock: malformed request target %q: %w", parts[1], err)
	}
	req.Path = u.Path
	if u.RawQuery != "" {
		req.Query = "?" + u.RawQuery
	}

	for {
		line, err := readCRLFLine(r)
		if err != nil {
			return nil, err
		}
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("httpmock: malformed header line %q", line)
		}
		req.Headers.Add(name, strings.TrimSpace(value))
	}

	body, err := readBody(r, req.Headers)
	if err != nil {
		return nil, err
	}
	req.Body = body

	return req, nil
}

func readCRLFLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func readBody(r *bufio.Reader, headers Headers) ([]byte, error) {
	if strings.Contains(strings.ToLower(headers.GetFold("Transfer-Encoding")), "chunked") {
		return readChunkedBody(r)
	}

	cl := headers.GetFold("Content-Length")
	if cl == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(cl))
	if err != nil || n < 0 {
		return nil, fmt.Errorf("httpmock: malformed Content-Length %q", cl)
	}
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func readChunkedBody(r *bufio.Reader) ([]byte, error) {
	var body []byte
	for {
		sizeLine, err := readCRLFLine(r)
		if err != nil {
			return nil, err
		}
		sizeStr, _, _ := strings.Cut(sizeLine, ";")
		size, err := strconv.ParseInt(strings.TrimSpace(sizeStr), 16, 64)
		if err != nil {
			return nil, fmt.Errorf("httpmock: malformed chunk size %q", sizeLine)
		}
		if size == 0 {
			// trailer section, terminated by a blank line
			for {
				line, err := readCRLFLine(r)
				if err != nil {
					return nil, err
				}
				if line == "" {
					break
				}
			}
			return body, nil
		}
		chunk := make([]byte, size)
		if _, err := io.ReadFull(r, chunk); err != nil {
			return nil, err
		}
		body = append(body, chunk...)
		if _, err := readCRLFLine(r); err != nil { // trailing CRLF after chunk data
			return nil, err
		}
	}
}
