package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	tailsvc "github.com/Feandil/netlog/internal/services/tail"
)

// sseSink adapts an HTTP response into a tail sink speaking
// Server-Sent Events. Each tail item becomes one SSE message.
type sseSink struct {
	w http.ResponseWriter
	r *http.Request
}

// Send writes the item as a single "data:" message. The frame is
// assembled first so the wire never carries a partial message.
func (s sseSink) Send(it tailsvc.Item) error {
	payload, err := json.Marshal(it)
	if err != nil {
		return err
	}
	frame := make([]byte, 0, len(payload)+8)
	frame = append(frame, "data: "...)
	frame = append(frame, payload...)
	frame = append(frame, '\n', '\n')
	_, err = s.w.Write(frame)
	return err
}

// Context reports the request context; the stream ends when the
// client disconnects.
func (s sseSink) Context() context.Context { return s.r.Context() }

// Flush pushes buffered frames to the client.
func (s sseSink) Flush() error {
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
