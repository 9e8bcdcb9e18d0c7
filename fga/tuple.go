package fga

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/kbukum/fgakit/errors"
	"github.com/kbukum/fgakit/validation"
)

// DefaultObjectType is the object type tuples are written against.
const DefaultObjectType = "catalog_entity"

// User identifies a subject as "<type>:<id>", optionally followed by
// "#<relation>" for a userset. The id may be "*".
type User string

// ParseUser validates s and returns it as a User.
func ParseUser(s string) (User, error) {
	if !validation.IsUser(s) {
		return "", errors.InvalidFormat("user", "type:id or type:id#relation")
	}
	return User(s), nil
}

// String returns the identifier as sent on the wire.
func (u User) String() string { return string(u) }

// Type returns the part before the first colon.
func (u User) Type() string {
	t, _, _ := strings.Cut(string(u), ":")
	return t
}

// Object builds "<objectType>:<entityName>". The entity name is used as
// given, without escaping.
func Object(objectType, entityName string) string {
	return objectType + ":" + entityName
}

// Fingerprint is the result cache key for a tuple evaluated against an
// authorization model.
func Fingerprint(modelID string, user User, relation, object string) string {
	h := sha256.New()
	for _, part := range []string{modelID, string(user), relation, object} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
