package stream

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kherrera/gitattrib/internal/contract"
	"github.com/kherrera/gitattrib/schema"
)

var testLogger = zerolog.Nop()

func TestEmitterTerminalClosesStream(t *testing.T) {
	emitter := NewEmitter(4)
	emitter.Progress("working", 50)
	emitter.Complete("done", true, 3)

	// Calls after the terminal event are dropped, not a panic.
	emitter.Progress("late", 99)
	emitter.Error("late", schema.CodeInternal)

	var events []Event
	for e := range emitter.Events() {
		events = append(events, e)
	}
	require.Len(t, events, 2)
	assert.Equal(t, ProgressEvent, events[0].Type)
	assert.Equal(t, CompleteEvent, events[1].Type)
	assert.True(t, events[1].HasMore)
	assert.Equal(t, 3, events[1].NextOffset)
}

func TestEventMarshal(t *testing.T) {
	e := Event{Type: ErrorEvent, Message: "quota low", Code: schema.CodeRateLimitLow}
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(e.Marshal(), &decoded))
	assert.Equal(t, "error", decoded["type"])
	assert.Equal(t, string(schema.CodeRateLimitLow), decoded["code"])
}

// readFrames collects the data payloads of an SSE response body.
func readFrames(t *testing.T, body string) []Event {
	t.Helper()
	var events []Event
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var e Event
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &e))
		events = append(events, e)
	}
	return events
}

func TestHandlerStreamsFrames(t *testing.T) {
	handler := NewHandler(func(r *http.Request, emitter *Emitter) {
		emitter.Progress("listing", 40)
		emitter.Progress("hydrating", 90)
		emitter.Complete(map[string]int{"commits": 42}, false, 0)
	}, &testLogger)

	srv := httptest.NewServer(handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, readErr := resp.Body.Read(buf)
		sb.Write(buf[:n])
		if readErr != nil {
			break
		}
	}

	events := readFrames(t, sb.String())
	require.Len(t, events, 3)
	assert.Equal(t, ProgressEvent, events[0].Type)
	assert.Equal(t, 40.0, events[0].Percent)
	assert.Equal(t, CompleteEvent, events[2].Type)
}

func TestHandlerErrorEvent(t *testing.T) {
	handler := NewHandler(func(r *http.Request, emitter *Emitter) {
		EmitAbort(emitter, contract.ErrRateLimitLow)
	}, &testLogger)

	srv := httptest.NewServer(handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, readErr := resp.Body.Read(buf)
		sb.Write(buf[:n])
		if readErr != nil {
			break
		}
	}

	events := readFrames(t, sb.String())
	require.Len(t, events, 1)
	assert.Equal(t, ErrorEvent, events[0].Type)
	assert.Equal(t, schema.CodeRateLimitLow, events[0].Code)
}
