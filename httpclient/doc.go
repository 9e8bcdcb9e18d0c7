// Package httpclient is the HTTP transport behind the authorization client.
//
// Doer is the capability the client depends on; Adapter implements it on
// net/http with pluggable auth, TLS, opt-in retry and circuit
// breaking, and W3C trace-context propagation through the global otel
// propagator. Tests substitute a DoerFunc.
//
// Failures are reported as *errors.AppError: a non-2xx answer becomes a
// TRANSPORT_ERROR returned together with the Response, a request that got
// no answer becomes CONNECTION_FAILED or TIMEOUT with a nil Response.
//
//	a, err := httpclient.New(httpclient.Config{
//	    Name:    "fga",
//	    BaseURL: "https://fga.example.com",
//	    Auth:    httpclient.BearerAuth(token),
//	    Retry:   httpclient.DefaultRetryConfig(),
//	})
//	resp, err := a.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/stores/s1/check", Body: body})
package httpclient
