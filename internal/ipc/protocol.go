// Package ipc carries activation requests from a second application instance
// to the one already running. The transport is a per-user named pipe on
// Windows and a unix socket elsewhere; the framing is one JSON object per
// line in each direction.
package ipc

import "encoding/json"

// CommandActivate asks the running instance to show and focus its window.
const CommandActivate = "activate-window"

// Request is a single activation command.
type Request struct {
	Command string            `json:"command"`
	Payload map[string]string `json:"payload,omitempty"`
}

// Response reports the outcome of a request.
type Response struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Handler processes a request from another instance.
type Handler interface {
	Execute(req Request) Response
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(req Request) Response

// Execute implements Handler.
func (f HandlerFunc) Execute(req Request) Response { return f(req) }

func encodeRequest(req Request) ([]byte, error) {
	return json.Marshal(req)
}

func decodeRequest(raw []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return Request{}, err
	}
	if req.Payload == nil {
		req.Payload = map[string]string{}
	}
	return req, nil
}

func encodeResponse(resp Response) ([]byte, error) {
	return json.Marshal(resp)
}

func decodeResponse(raw []byte) (Response, error) {
	var resp Response
	err := json.Unmarshal(raw, &resp)
	if err != nil {
		return Response{}, err
	}
	return resp, nil
}
