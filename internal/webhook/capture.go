package webhook

import (
	"encoding/json"
	"sync"
	"time"
)

// CapturedPayload is one raw webhook body kept for operator debugging.
type CapturedPayload struct {
	ReceivedAt time.Time       `json:"received_at"`
	Body       json.RawMessage `json:"body"`
}

// Capture is a bounded ring buffer of recent webhook payloads, exposed
// read-only on the operator surface. Fixed capacity: old entries are
// overwritten, so a webhook flood cannot grow process memory.
type Capture struct {
	mu   sync.Mutex
	buf  []CapturedPayload
	next int
	full bool
}

const defaultCaptureSize = 50

func NewCapture(size int) *Capture {
	if size <= 0 {
		size = defaultCaptureSize
	}
	return &Capture{buf: make([]CapturedPayload, size)}
}

// Add records a payload. Non-JSON bodies are stored as a JSON string so the
// operator endpoint always returns valid JSON.
func (c *Capture) Add(raw []byte) {
	if c == nil {
		return
	}
	body := make([]byte, len(raw))
	copy(body, raw)
	if !json.Valid(body) {
		quoted, err := json.Marshal(string(body))
		if err != nil {
			return
		}
		body = quoted
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf[c.next] = CapturedPayload{ReceivedAt: time.Now().UTC(), Body: body}
	c.next = (c.next + 1) % len(c.buf)
	if c.next == 0 {
		c.full = true
	}
}

// Recent returns captured payloads, newest first.
func (c *Capture) Recent() []CapturedPayload {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.next
	if c.full {
		n = len(c.buf)
	}
	out := make([]CapturedPayload, 0, n)
	for i := 0; i < n; i++ {
		idx := (c.next - 1 - i + len(c.buf)) % len(c.buf)
		out = append(out, c.buf[idx])
	}
	return out
}
