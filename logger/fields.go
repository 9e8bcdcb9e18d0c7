package logger

import (
	"time"
)

// Field keys shared by fgakit packages.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldOperation = "operation"
	FieldStatus    = "status"
	FieldError     = "error"
	FieldDuration  = "duration_ms"

	// Tuple fields.
	FieldUser     = "user"
	FieldRelation = "relation"
	FieldObject   = "object"
)

// Fields pairs up alternating keys and values. Pairs whose key is not a
// string are skipped, as is a trailing key without a value.
//
//	log.Info("tuple written", logger.Fields(logger.FieldRelation, "owner"))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 1; i < len(kvs); i += 2 {
		if key, ok := kvs[i-1].(string); ok {
			m[key] = kvs[i]
		}
	}
	return m
}

// TupleFields describes a relationship tuple.
func TupleFields(user, relation, object string) map[string]interface{} {
	return map[string]interface{}{
		FieldUser:     user,
		FieldRelation: relation,
		FieldObject:   object,
	}
}

// ErrorFields describes a failed operation. A nil err yields only the
// operation.
func ErrorFields(op string, err error) map[string]interface{} {
	m := map[string]interface{}{FieldOperation: op}
	if err != nil {
		m[FieldError] = err.Error()
	}
	return m
}

// DurationFields describes a timed operation in whole milliseconds.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldDuration:  d.Milliseconds(),
	}
}
