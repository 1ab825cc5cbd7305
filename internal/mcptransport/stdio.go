package mcptransport

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/agentcore/agentcore/internal/logging"
)

// StdioConfig configures a stdio-spawned MCP server.
type StdioConfig struct {
	Command []string
	Env     map[string]string
	Dir     string
}

// StdioTransport spawns the configured executable and frames JSON-RPC as
// newline-delimited JSON over its stdin/stdout. stderr is drained and logged
// at warn level; it never participates in framing.
type StdioTransport struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader

	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan *rawResponse

	closeMu sync.RWMutex
	closed  bool
}

type rawResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewStdioTransport spawns cfg.Command with the given environment overlay and
// working directory, then starts the response read loop.
func NewStdioTransport(ctx context.Context, cfg StdioConfig) (*StdioTransport, error) {
	if len(cfg.Command) == 0 {
		return nil, newError(SpawnFailed, fmt.Errorf("empty command"))
	}

	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = os.Environ()
	for k, v := range cfg.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, newError(SpawnFailed, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, newError(SpawnFailed, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, newError(SpawnFailed, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, newError(SpawnFailed, err)
	}

	t := &StdioTransport{
		cmd:     cmd,
		stdin:   stdin,
		stdout:  bufio.NewReader(stdout),
		pending: make(map[int64]chan *rawResponse),
	}

	go t.drainStderr(stderr)
	go t.readLoop()

	return t, nil
}

// drainStderr logs every line from the child's stderr at warn level without
// participating in JSON-RPC framing.
func (t *StdioTransport) drainStderr(stderr io.Reader) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		logging.Warn().Str("component", "mcptransport.stdio").Msg(scanner.Text())
	}
}

func (t *StdioTransport) readLoop() {
	for {
		line, err := t.stdout.ReadBytes('\n')
		if len(line) == 0 && err != nil {
			t.closeAllPending()
			return
		}

		var resp rawResponse
		if jsonErr := json.Unmarshal(line, &resp); jsonErr != nil {
			logging.Warn().Err(jsonErr).Msg("mcptransport.stdio: malformed frame")
			if err != nil {
				t.closeAllPending()
				return
			}
			continue
		}

		if resp.ID != 0 {
			t.mu.Lock()
			if ch, ok := t.pending[resp.ID]; ok {
				ch <- &resp
				delete(t.pending, resp.ID)
			}
			t.mu.Unlock()
		}

		if err != nil {
			t.closeAllPending()
			return
		}
	}
}

func (t *StdioTransport) closeAllPending() {
	t.closeMu.Lock()
	t.closed = true
	t.closeMu.Unlock()

	t.mu.Lock()
	for _, ch := range t.pending {
		close(ch)
	}
	t.pending = make(map[int64]chan *rawResponse)
	t.mu.Unlock()
}

// Send writes a JSON-RPC request and blocks for its matching response.
func (t *StdioTransport) Send(ctx context.Context, method string, params any) (json.RawMessage, error) {
	t.closeMu.RLock()
	closed := t.closed
	t.closeMu.RUnlock()
	if closed {
		return nil, newError(ConnectionClosed, nil)
	}

	id := atomic.AddInt64(&t.nextID, 1)
	ch := make(chan *rawResponse, 1)
	t.mu.Lock()
	t.pending[id] = ch
	t.mu.Unlock()

	req := map[string]any{"jsonrpc": "2.0", "id": id, "method": method}
	if params != nil {
		req["params"] = params
	}

	if err := t.writeMessage(req); err != nil {
		t.mu.Lock()
		delete(t.pending, id)
		t.mu.Unlock()
		return nil, newError(ConnectionClosed, err)
	}

	select {
	case resp, ok := <-ch:
		if !ok || resp == nil {
			return nil, newError(ConnectionClosed, nil)
		}
		if resp.Error != nil {
			return nil, newError(ProtocolError, fmt.Errorf("%d: %s", resp.Error.Code, resp.Error.Message))
		}
		return resp.Result, nil
	case <-ctx.Done():
		t.mu.Lock()
		delete(t.pending, id)
		t.mu.Unlock()
		return nil, newError(Timeout, ctx.Err())
	}
}

// Notify writes a notification (no id, no response expected).
func (t *StdioTransport) Notify(ctx context.Context, method string, params any) error {
	t.closeMu.RLock()
	closed := t.closed
	t.closeMu.RUnlock()
	if closed {
		return newError(ConnectionClosed, nil)
	}

	req := map[string]any{"jsonrpc": "2.0", "method": method}
	if params != nil {
		req["params"] = params
	}
	return t.writeMessage(req)
}

func (t *StdioTransport) writeMessage(msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err = t.stdin.Write(append(body, '\n'))
	return err
}

// Close closes stdin, then kills and waits the child. Idempotent.
func (t *StdioTransport) Close() error {
	// closed may already be set by readLoop when the child exited on its own;
	// ProcessState is what records that the child has been waited.
	t.closeMu.Lock()
	defer t.closeMu.Unlock()
	t.closed = true
	if t.cmd.ProcessState != nil {
		return nil
	}

	_ = t.stdin.Close()
	if t.cmd.Process != nil {
		_ = t.cmd.Process.Kill()
		_ = t.cmd.Wait()
	}
	return nil
}
