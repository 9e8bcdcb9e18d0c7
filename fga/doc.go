// Package fga is a client for an OpenFGA-style relationship authorization
// service.
//
// The client checks, grants and revokes single relationship tuples of the
// form (user, relation, object) where the object is
// "<object_type>:<entity name>", catalog_entity by default. Requests are
// sent through an injected httpclient.Doer, so the same client runs against
// the net/http Adapter, a host-supplied transport or a test double.
//
//	transport, _ := httpclient.New(cfg.HTTPConfig())
//	client, err := fga.New(cfg, transport)
//	resp, err := client.Check(ctx, "widget-service", "delete", "user:alice")
//	if err != nil {
//	    // errors.Is(err, errors.ErrCodeTransport), errors.StatusCode(err), ...
//	}
//	if resp.Allowed { ... }
//
// Every operation validates its status code: a non-2xx answer is an
// *errors.AppError with code TRANSPORT_ERROR. Grant and Revoke still return
// the decoded reply alongside that error.
//
// LastCheckResult keeps the reply of the most recent successful Check.
// Concurrent checks race for it and the last one to complete wins, so
// callers that need the result of a particular request must use the value
// Check returned. Per-tuple results are available through an optional
// result cache keyed by Fingerprint.
package fga
