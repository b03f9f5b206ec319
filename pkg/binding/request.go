package binding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/joeydtaylor/steeze-webapp/pkg/codec"
)

// MaxBodyBytes caps how much of a request body a script can read.
const MaxBodyBytes = 10 << 20

// Request is the read-only view of the inbound HTTP request.
type Request struct {
	r *http.Request

	once    sync.Once
	body    []byte
	bodyErr error
}

func NewRequest(r *http.Request) *Request { return &Request{r: r} }

func (q *Request) Method() string     { return q.r.Method }
func (q *Request) Path() string       { return q.r.URL.Path }
func (q *Request) URL() string        { return q.r.URL.String() }
func (q *Request) Host() string       { return q.r.Host }
func (q *Request) RemoteAddr() string { return q.r.RemoteAddr }

// Context is the request context; it is done when the client goes away or a timeout fires.
func (q *Request) Context() context.Context { return q.r.Context() }

// Query returns the first value of the named query parameter.
func (q *Request) Query(name string) string { return q.r.URL.Query().Get(name) }

// Header returns the first value of the named request header.
func (q *Request) Header(name string) string { return q.r.Header.Get(name) }

// Headers flattens request headers, joining repeated values with ", ".
func (q *Request) Headers() map[string]string {
	out := make(map[string]string, len(q.r.Header))
	for k, vs := range q.r.Header {
		out[k] = strings.Join(vs, ", ")
	}
	return out
}

// Body reads the whole request body once; later calls return the cached text.
func (q *Request) Body() (string, error) {
	b, err := q.readBody()
	return string(b), err
}

// ParseJSON decodes the request body as JSON.
func (q *Request) ParseJSON() (any, error) {
	b, err := q.readBody()
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, errors.New("empty request body")
	}
	var v any
	if err := codec.JSONStrict.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (q *Request) readBody() ([]byte, error) {
	q.once.Do(func() {
		if q.r.Body == nil {
			return
		}
		b, err := io.ReadAll(io.LimitReader(q.r.Body, MaxBodyBytes+1))
		if err != nil {
			q.bodyErr = fmt.Errorf("read body: %w", err)
			return
		}
		if len(b) > MaxBodyBytes {
			q.bodyErr = fmt.Errorf("request body exceeds %d bytes", MaxBodyBytes)
			return
		}
		q.body = b
	})
	return q.body, q.bodyErr
}
