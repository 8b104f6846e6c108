package transport

import "encoding/json"

// EnvelopeRequest describes a result to build and serialize.
type EnvelopeRequest struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Messages []MessageRequest `json:"messages"`
}

type MessageRequest struct {
	Message string `json:"message"`
	Code    any    `json:"code"`
	Field   string `json:"field"`
}
