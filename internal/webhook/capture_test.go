package webhook

import (
	"encoding/json"
	"testing"
)

func TestCapture_NewestFirstAndBounded(t *testing.T) {
	c := NewCapture(3)
	for _, s := range []string{`{"n":1}`, `{"n":2}`, `{"n":3}`, `{"n":4}`} {
		c.Add([]byte(s))
	}

	got := c.Recent()
	if len(got) != 3 {
		t.Fatalf("len = %d, want capacity 3", len(got))
	}
	if string(got[0].Body) != `{"n":4}` || string(got[2].Body) != `{"n":2}` {
		t.Fatalf("order wrong: %s ... %s", got[0].Body, got[2].Body)
	}
}

func TestCapture_NonJSONBodyIsQuoted(t *testing.T) {
	c := NewCapture(2)
	c.Add([]byte("not json"))

	got := c.Recent()
	if len(got) != 1 {
		t.Fatalf("len = %d", len(got))
	}
	var s string
	if err := json.Unmarshal(got[0].Body, &s); err != nil || s != "not json" {
		t.Fatalf("body = %s, err = %v", got[0].Body, err)
	}
}

func TestCapture_NilSafe(t *testing.T) {
	var c *Capture
	c.Add([]byte("x"))
	if c.Recent() != nil {
		t.Fatal("nil capture should return nil")
	}
}
