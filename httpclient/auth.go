package httpclient

import "net/http"

// Authenticator adds credentials to an outgoing request.
type Authenticator interface {
	Authenticate(req *http.Request)
}

// AuthFunc adapts a function to Authenticator.
type AuthFunc func(req *http.Request)

func (f AuthFunc) Authenticate(req *http.Request) { f(req) }

type bearerToken string

func (t bearerToken) Authenticate(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+string(t))
}

// BearerAuth sends "Authorization: Bearer <token>", the scheme of OpenFGA's
// preshared-key authentication. It returns nil for an empty token, so a
// local store without authentication needs no special casing.
func BearerAuth(token string) Authenticator {
	if token == "" {
		return nil
	}
	return bearerToken(token)
}
