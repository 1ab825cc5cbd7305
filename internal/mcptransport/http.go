package mcptransport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/agentcore/agentcore/internal/logging"
)

const sessionIDHeader = "Mcp-Session-Id"

// HTTPTransport implements the HTTP-streamable transport:
// every call is a POST with Accept negotiating JSON or SSE-framed JSON, and
// the server-assigned Mcp-Session-Id is echoed on every subsequent request.
type HTTPTransport struct {
	url     string
	headers map[string]string
	client  *http.Client

	nextID int64

	mu        sync.RWMutex
	sessionID string
}

// NewHTTPTransport builds a transport against url with the given static
// headers applied to every request.
func NewHTTPTransport(url string, headers map[string]string) (*HTTPTransport, error) {
	if url == "" {
		return nil, newError(ProtocolError, fmt.Errorf("url is required"))
	}
	return &HTTPTransport{
		url:     url,
		headers: headers,
		client:  &http.Client{},
	}, nil
}

func (t *HTTPTransport) buildRequest(ctx context.Context, id int64, method string, params any, notification bool) (*http.Request, error) {
	body := map[string]any{"jsonrpc": "2.0", "method": method}
	if !notification {
		body["id"] = id
	}
	if params != nil {
		body["params"] = params
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}

	t.mu.RLock()
	sid := t.sessionID
	t.mu.RUnlock()
	if sid != "" {
		req.Header.Set(sessionIDHeader, sid)
	}

	return req, nil
}

func (t *HTTPTransport) captureSessionID(resp *http.Response) {
	if sid := resp.Header.Get(sessionIDHeader); sid != "" {
		t.mu.Lock()
		t.sessionID = sid
		t.mu.Unlock()
	}
}

// Send issues a POST and decodes either a plain JSON body or the first
// data:-framed SSE line as the JSON-RPC response.
func (t *HTTPTransport) Send(ctx context.Context, method string, params any) (json.RawMessage, error) {
	id := atomic.AddInt64(&t.nextID, 1)
	req, err := t.buildRequest(ctx, id, method, params, false)
	if err != nil {
		return nil, newError(ProtocolError, err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, newError(ConnectionClosed, err)
	}
	defer resp.Body.Close()

	t.captureSessionID(resp)

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, newError(ProtocolError, fmt.Errorf("http %d: %s", resp.StatusCode, string(b)))
	}

	contentType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))

	var raw rawResponse
	switch {
	case strings.HasPrefix(contentType, "text/event-stream"):
		payload, err := firstSSEDataLine(resp.Body)
		if err != nil {
			return nil, newError(ProtocolError, err)
		}
		if err := json.Unmarshal(payload, &raw); err != nil {
			return nil, newError(ProtocolError, err)
		}
	default:
		if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
			return nil, newError(ProtocolError, err)
		}
	}

	if raw.Error != nil {
		return nil, newError(ProtocolError, fmt.Errorf("%d: %s", raw.Error.Code, raw.Error.Message))
	}
	return raw.Result, nil
}

// firstSSEDataLine reads an SSE body and returns the payload of the first
// "data: " line.
func firstSSEDataLine(r io.Reader) ([]byte, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			return []byte(strings.TrimPrefix(line, "data: ")), nil
		}
		if strings.HasPrefix(line, "data:") {
			return []byte(strings.TrimPrefix(line, "data:")), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("no data line in event stream")
}

// Notify sends a notification. A non-202 status is logged at warn level but
// does not fail the handshake.
func (t *HTTPTransport) Notify(ctx context.Context, method string, params any) error {
	req, err := t.buildRequest(ctx, 0, method, params, true)
	if err != nil {
		return newError(ProtocolError, err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return newError(ConnectionClosed, err)
	}
	defer resp.Body.Close()

	t.captureSessionID(resp)

	if resp.StatusCode != http.StatusAccepted {
		logging.Warn().
			Int("status", resp.StatusCode).
			Str("method", method).
			Msg("mcptransport.http: notification did not return 202")
	}
	return nil
}

// Close is a no-op: HTTP transports hold no persistent connection state
// beyond the client, which needs no explicit shutdown.
func (t *HTTPTransport) Close() error {
	return nil
}
