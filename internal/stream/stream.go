// Package stream delivers fetch progress to remote observers over
// server-sent events.
package stream

import (
	"encoding/json"

	"github.com/kherrera/gitattrib/schema"
)

// Event types. A stream is any number of progress events followed by
// exactly one terminal complete or error event.
const (
	ProgressEvent = "progress"
	CompleteEvent = "complete"
	ErrorEvent    = "error"
)

// Event is one tagged message on a progress stream.
type Event struct {
	Type    string  `json:"type"`
	Message string  `json:"message,omitempty"`
	Percent float64 `json:"percent,omitempty"`

	// Complete payload.
	Result     any  `json:"result,omitempty"`
	HasMore    bool `json:"hasMore,omitempty"`
	NextOffset int  `json:"nextOffset,omitempty"`

	// Error payload.
	Code schema.ErrorCode `json:"code,omitempty"`
}

// Marshal renders the event as its JSON wire form.
func (e *Event) Marshal() []byte {
	data, _ := json.Marshal(e)
	return data
}

// Emitter owns the write side of an event channel. Exactly one
// goroutine calls its methods; a terminal event closes the channel and
// later calls are dropped.
type Emitter struct {
	ch     chan Event
	closed bool
}

// NewEmitter creates an emitter with a buffered channel so slow
// consumers do not stall progress emission immediately.
func NewEmitter(buffer int) *Emitter {
	return &Emitter{ch: make(chan Event, buffer)}
}

// Events returns the read side of the stream.
func (e *Emitter) Events() <-chan Event {
	return e.ch
}

// Progress emits a non-terminal progress event.
func (e *Emitter) Progress(message string, percent float64) {
	if e.closed {
		return
	}
	e.ch <- Event{Type: ProgressEvent, Message: message, Percent: percent}
}

// Complete emits the terminal success event and closes the stream.
func (e *Emitter) Complete(result any, hasMore bool, nextOffset int) {
	if e.closed {
		return
	}
	e.ch <- Event{Type: CompleteEvent, Result: result, HasMore: hasMore, NextOffset: nextOffset}
	e.closed = true
	close(e.ch)
}

// Error emits the terminal failure event and closes the stream.
func (e *Emitter) Error(message string, code schema.ErrorCode) {
	if e.closed {
		return
	}
	e.ch <- Event{Type: ErrorEvent, Message: message, Code: code}
	e.closed = true
	close(e.ch)
}
