package mcptransport

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/agentcore/agentcore/internal/logging"
	"github.com/agentcore/agentcore/internal/mcpwire"
)

// MaxSSEBufferBytes is the hard cap on the raw-bytes line-assembly buffer.
const MaxSSEBufferBytes = 1 << 20

// ReconnectBackoff is the reference reconnect delay after the GET stream
// terminates.
const ReconnectBackoff = 5 * time.Second

// SSETransport layers a persistent server-push GET stream on top of the same
// POST request shape as HTTPTransport, but with Accept: text/event-stream.
type SSETransport struct {
	*HTTPTransport

	sink NotificationSink

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSSETransport builds the transport and starts the background GET loop
// feeding notifications to sink.
func NewSSETransport(ctx context.Context, url string, headers map[string]string, sink NotificationSink) (*SSETransport, error) {
	base, err := NewHTTPTransport(url, headers)
	if err != nil {
		return nil, err
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	t := &SSETransport{
		HTTPTransport: base,
		sink:          sink,
		cancel:        cancel,
		done:          make(chan struct{}),
	}

	go t.watchLoop(watchCtx)

	return t, nil
}

func (t *SSETransport) watchLoop(ctx context.Context) {
	defer close(t.done)
	b := newReconnectBackoff()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := t.streamOnce(ctx); err != nil {
			logging.Warn().Err(err).Msg("mcptransport.sse: stream terminated")
		} else {
			b.Reset()
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(b.NextBackOff()):
		}
	}
}

func (t *SSETransport) streamOnce(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	t.captureSessionID(resp)

	reader := bufio.NewReader(resp.Body)
	buf := make([]byte, 0, 4096)

	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			if len(buf)+len(line) > MaxSSEBufferBytes {
				logging.Warn().Msg("mcptransport.sse: raw-bytes buffer overflow, clearing")
				buf = buf[:0]
			} else {
				buf = append(buf, line...)
				t.consumeBuffered(&buf)
			}
		}
		if err != nil {
			return err
		}
	}
}

// consumeBuffered pulls complete LF-terminated "data: " lines out of buf and
// forwards each payload to the notification sink.
func (t *SSETransport) consumeBuffered(buf *[]byte) {
	s := string(*buf)
	idx := strings.IndexByte(s, '\n')
	if idx < 0 {
		return
	}
	line := strings.TrimRight(s[:idx], "\r")
	*buf = (*buf)[idx+1:]

	payload, ok := strings.CutPrefix(line, "data: ")
	if !ok {
		payload, ok = strings.CutPrefix(line, "data:")
	}
	if !ok || payload == "" {
		return
	}

	var note mcpwire.Notification
	if err := json.Unmarshal([]byte(payload), &note); err != nil {
		logging.Warn().Err(err).Msg("mcptransport.sse: malformed notification frame")
		return
	}
	if t.sink != nil {
		t.sink.Notify(note)
	}
}

// Close cancels the background GET and closes the underlying HTTP transport.
// Idempotent.
func (t *SSETransport) Close() error {
	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.mu.Unlock()
	return t.HTTPTransport.Close()
}

// newReconnectBackoff builds the jittered reconnect schedule: it holds at
// ReconnectBackoff (no growth) but still applies the default ±50% jitter
// (each wait falls between half and one and a half times it), so many
// reconnecting clients don't thunder against the same server at once.
func newReconnectBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = ReconnectBackoff
	b.MaxInterval = ReconnectBackoff
	b.MaxElapsedTime = 0
	return b
}
