package binding

import (
	"net/http"
	"strconv"

	"github.com/joeydtaylor/steeze-webapp/pkg/codec"
)

// Response is the script's handle on the outbound HTTP response. The status
// line is committed on the first body write; later status changes are ignored.
type Response struct {
	w         http.ResponseWriter
	status    int
	committed bool
	written   int
}

func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w, status: http.StatusOK}
}

// SetStatus records the status code to send. It reports false once the response is committed.
func (s *Response) SetStatus(code int) bool {
	if s.committed || code < 100 || code > 999 {
		return false
	}
	s.status = code
	return true
}

func (s *Response) Status() int       { return s.status }
func (s *Response) Committed() bool   { return s.committed }
func (s *Response) BytesWritten() int { return s.written }

func (s *Response) SetHeader(name, value string) { s.w.Header().Set(name, value) }
func (s *Response) AddHeader(name, value string) { s.w.Header().Add(name, value) }
func (s *Response) Header(name string) string    { return s.w.Header().Get(name) }

// Write sends text, committing the status line first if needed.
func (s *Response) Write(text string) (int, error) {
	s.commit()
	n, err := s.w.Write([]byte(text))
	s.written += n
	return n, err
}

// WriteJSON encodes v as the response body and sets a JSON content type if none is set.
func (s *Response) WriteJSON(v any) error {
	b, err := codec.JSONStrict.Marshal(v)
	if err != nil {
		return err
	}
	if !s.committed && s.w.Header().Get("Content-Type") == "" {
		s.w.Header().Set("Content-Type", codec.JSONStrict.ContentType())
	}
	if !s.committed {
		s.w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	}
	s.commit()
	n, err := s.w.Write(b)
	s.written += n
	return err
}

// Redirect sends a redirect to location with the given 3xx code (302 when code is 0).
func (s *Response) Redirect(location string, code int) bool {
	if s.committed {
		return false
	}
	if code == 0 {
		code = http.StatusFound
	}
	if code < 300 || code > 399 {
		return false
	}
	s.w.Header().Set("Location", location)
	s.status = code
	s.commit()
	return true
}

func (s *Response) commit() {
	if s.committed {
		return
	}
	s.committed = true
	s.w.WriteHeader(s.status)
}
