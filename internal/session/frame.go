// Package session serves interactive query sessions over WebSocket and
// raw TCP. Both transports speak the same newline-delimited JSON frames:
//
//	-> {"op":"votos","arg":"toy story"}
//	<- {"op":"votos","result":{"titulo":"Toy Story",...}}
//	<- {"op":"nope","error":"\"nope\": unknown operation"}
package session

import (
	"github.com/goccy/go-json"

	"moviehub/internal/movies"
)

type Request struct {
	Op  string `json:"op"`
	Arg string `json:"arg"`
}

type Response struct {
	Op     string `json:"op"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// handleFrame decodes one frame, runs it and encodes the reply.
func handleFrame(svc *movies.Service, raw []byte) []byte {
	var req Request
	var resp Response
	if err := json.Unmarshal(raw, &req); err != nil {
		resp = Response{Error: "invalid frame: " + err.Error()}
	} else {
		resp.Op = req.Op
		result, err := svc.Run(req.Op, req.Arg)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Result = result
		}
	}

	b, err := json.Marshal(resp)
	if err != nil {
		b, _ = json.Marshal(Response{Op: req.Op, Error: "encode result: " + err.Error()})
	}
	return b
}

const (
	errRateLimited   = "rate limit exceeded"
	errFrameTooLarge = "frame too large"
)

// throttled is the reply to a frame over the session's rate.
func throttled(raw []byte) []byte {
	var req Request
	_ = json.Unmarshal(raw, &req)
	return errorFrame(req.Op, errRateLimited)
}

func errorFrame(op, msg string) []byte {
	b, _ := json.Marshal(Response{Op: op, Error: msg})
	return b
}

func welcome(transport string) []byte {
	b, _ := json.Marshal(map[string]string{"type": "welcome", "transport": transport})
	return b
}
