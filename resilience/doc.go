// Package resilience holds the opt-in fault tolerance used by the HTTP
// transport: retry with exponential backoff and a circuit breaker.
//
// Both default to classifying failures with errors.IsRetryable, so a 4xx
// answer from the authorization service is returned at once and never
// counts against the breaker.
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("fga"))
//	resp, err := resilience.Retry(ctx, resilience.DefaultRetryConfig(), func(ctx context.Context) (*Response, error) {
//	    var resp *Response
//	    err := cb.Execute(func() (err error) {
//	        resp, err = call(ctx)
//	        return err
//	    })
//	    return resp, err
//	})
package resilience
