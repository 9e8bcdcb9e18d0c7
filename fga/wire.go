package fga

// TupleKey is one relationship tuple on the wire.
type TupleKey struct {
	User     string `json:"user"`
	Relation string `json:"relation"`
	Object   string `json:"object"`
}

// CheckRequest is the body of POST /stores/{store_id}/check.
type CheckRequest struct {
	TupleKey             TupleKey `json:"tuple_key"`
	AuthorizationModelID string   `json:"authorization_model_id"`
}

// WriteTupleKey is a tuple with the human-readable description sent on
// writes and deletes.
type WriteTupleKey struct {
	TupleKey
	Description string `json:"description"`
}

// TupleKeys wraps the tuple list of a write or delete.
type TupleKeys struct {
	TupleKeys []WriteTupleKey `json:"tuple_keys"`
}

// WriteRequest is the body of POST /stores/{store_id}/write. Exactly one of
// Writes and Deletes is set by this client.
type WriteRequest struct {
	Writes               *TupleKeys `json:"writes,omitempty"`
	Deletes              *TupleKeys `json:"deletes,omitempty"`
	AuthorizationModelID string     `json:"authorization_model_id"`
}

// Response is the service reply. It is passed through without schema
// validation; fields missing from the body keep their zero value.
type Response struct {
	Allowed bool   `json:"allowed"`
	OK      *bool  `json:"ok,omitempty"`
	Message string `json:"message"`
	// Code is the service error code, present on error replies.
	Code string `json:"code,omitempty"`
}

func (r *Response) clone() *Response {
	if r == nil {
		return nil
	}
	out := *r
	if r.OK != nil {
		ok := *r.OK
		out.OK = &ok
	}
	return &out
}
