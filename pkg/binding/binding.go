// Package binding defines the values a webapp script sees: a logger, the
// inbound request and the outbound response. A Set is built fresh for every
// request and never shared.
package binding

import (
	"net/http"

	"go.uber.org/zap"
)

// Names under which engines expose a Set to scripts.
const (
	NameLogger   = "logger"
	NameRequest  = "request"
	NameResponse = "response"
)

// Set is the per-request binding set.
type Set struct {
	Logger   *Logger
	Request  *Request
	Response *Response
}

// New builds a Set for one request/response pair.
func New(l *zap.Logger, w http.ResponseWriter, r *http.Request) Set {
	return Set{
		Logger:   NewLogger(l),
		Request:  NewRequest(r),
		Response: NewResponse(w),
	}
}
