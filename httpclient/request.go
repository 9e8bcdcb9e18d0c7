package httpclient

import "context"

// Request is one outbound call. Path is resolved against the adapter's
// BaseURL unless it is an absolute http(s) URL. Headers and Auth take
// precedence over the adapter's. Body may be []byte, a string, an
// io.Reader, or any other value, which is sent as JSON.
type Request struct {
	Method  string
	Path    string
	Headers map[string]string
	Query   map[string]string
	Body    any
	Auth    Authenticator
}

// Response is a received answer with its body fully read. Headers keeps
// the first value of each header.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

func (r *Response) IsSuccess() bool { return r.StatusCode/100 == 2 }

func (r *Response) IsError() bool { return r.StatusCode >= 400 }

// Doer sends a request and returns the full response. Implementations
// return a non-nil Response together with an error when the server answered
// with a non-2xx status, and a nil Response when no answer was received.
type Doer interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// DoerFunc adapts a function to the Doer interface.
type DoerFunc func(ctx context.Context, req Request) (*Response, error)

// Do calls f(ctx, req).
func (f DoerFunc) Do(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}
