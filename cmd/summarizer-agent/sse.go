package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Legendandy/youtube-summarizer-agent/pkg/agent"
)

// sseEvent is one server-sent event on the /assist stream.
type sseEvent struct {
	Event   string `json:"event"`
	Stream  string `json:"stream,omitempty"`
	Content string `json:"content,omitempty"`
}

// sseResponseHandler streams agent output to the client as server-sent
// events. Write errors are swallowed: once the client is gone there is
// nobody left to tell.
type sseResponseHandler struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newSSEResponseHandler(w http.ResponseWriter) (*sseResponseHandler, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	return &sseResponseHandler{w: w, flusher: flusher}, nil
}

func (h *sseResponseHandler) emit(ev sseEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	fmt.Fprintf(h.w, "data: %s\n\n", data)
	h.flusher.Flush()
}

// EmitTextBlock implements agent.ResponseHandler.
func (h *sseResponseHandler) EmitTextBlock(name, content string) error {
	h.emit(sseEvent{Event: "block", Stream: name, Content: content})
	return nil
}

// CreateTextStream implements agent.ResponseHandler.
func (h *sseResponseHandler) CreateTextStream(name string) agent.TextStream {
	return &sseTextStream{handler: h, name: name}
}

// Complete implements agent.ResponseHandler.
func (h *sseResponseHandler) Complete() error {
	h.emit(sseEvent{Event: "done"})
	return nil
}

type sseTextStream struct {
	handler *sseResponseHandler
	name    string
}

func (s *sseTextStream) EmitChunk(chunk string) error {
	s.handler.emit(sseEvent{Event: "chunk", Stream: s.name, Content: chunk})
	return nil
}

func (s *sseTextStream) Complete() error {
	s.handler.emit(sseEvent{Event: "stream_done", Stream: s.name})
	return nil
}
