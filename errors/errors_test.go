package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeTimeout, "timed out")
	if !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
	if New(ErrCodeParse, "bad").Retryable {
		t.Error("PARSE_ERROR should not be retryable")
	}
}

func TestTransport_MessageContainsStatus(t *testing.T) {
	err := Transport(http.StatusForbidden, []byte(`{"code":"forbidden"}`))
	if err.Code != ErrCodeTransport {
		t.Errorf("expected TRANSPORT_ERROR, got %s", err.Code)
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("expected message to contain 403, got %q", err.Error())
	}
	if err.HTTPStatus != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", err.HTTPStatus)
	}
	if err.Details["body"] != `{"code":"forbidden"}` {
		t.Errorf("expected body detail, got %v", err.Details["body"])
	}
	if err.Retryable {
		t.Error("403 should not be retryable")
	}
}

func TestTransport_RetryableStatuses(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{http.StatusBadRequest, false},
		{http.StatusNotFound, false},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusServiceUnavailable, true},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("status_%d", tc.status), func(t *testing.T) {
			if got := Transport(tc.status, nil).Retryable; got != tc.retryable {
				t.Errorf("expected retryable=%v, got %v", tc.retryable, got)
			}
		})
	}
}

func TestTransport_EmptyBodyHasNoDetail(t *testing.T) {
	err := Transport(500, nil)
	if _, ok := err.Details["body"]; ok {
		t.Error("expected no body detail for empty body")
	}
}

func TestParse_KeepsCause(t *testing.T) {
	cause := fmt.Errorf("unexpected end of JSON input")
	err := Parse(cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected Parse to wrap its cause")
	}
	if err.Code != ErrCodeParse {
		t.Errorf("expected PARSE_ERROR, got %s", err.Code)
	}
}

func TestTimeout_UnwrapsToContextError(t *testing.T) {
	err := Timeout("check", context.DeadlineExceeded)
	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Error("expected errors.Is to reach context.DeadlineExceeded")
	}
	if err.Details["operation"] != "check" {
		t.Errorf("expected operation=check, got %v", err.Details["operation"])
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{Code: ErrCodeInternal}
	err.WithDetail("k", "v")
	if err.Details["k"] != "v" {
		t.Errorf("expected k=v, got %v", err.Details["k"])
	}
}

func TestAppError_Error_Format(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad user")
	if err.Error() != "INVALID_INPUT: bad user" {
		t.Errorf("unexpected format: %q", err.Error())
	}

	err.WithCause(fmt.Errorf("root"))
	if !strings.Contains(err.Error(), "(cause: root)") {
		t.Errorf("expected cause in message, got %q", err.Error())
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code ErrorCode
	}{
		{"ConnectionFailed", ConnectionFailed("openfga", fmt.Errorf("refused")), ErrCodeConnectionFailed},
		{"InvalidInput", InvalidInput("user", "empty"), ErrCodeInvalidInput},
		{"Validation", Validation("nope"), ErrCodeInvalidInput},
		{"MissingField", MissingField("store_id"), ErrCodeMissingField},
		{"InvalidFormat", InvalidFormat("user", "type:id"), ErrCodeInvalidFormat},
		{"Cache", Cache("load", fmt.Errorf("down")), ErrCodeCache},
		{"Internal", Internal(fmt.Errorf("boom")), ErrCodeInternal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected %s, got %s", tc.code, tc.err.Code)
			}
		})
	}
}

func TestIsAndStatusCode_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("check widget: %w", Transport(502, nil))

	if !Is(wrapped, ErrCodeTransport) {
		t.Error("expected Is to find TRANSPORT_ERROR through wrapping")
	}
	if Is(wrapped, ErrCodeParse) {
		t.Error("did not expect PARSE_ERROR")
	}
	if StatusCode(wrapped) != 502 {
		t.Errorf("expected 502, got %d", StatusCode(wrapped))
	}
	if StatusCode(fmt.Errorf("plain")) != 0 {
		t.Error("expected 0 for non-AppError")
	}
	if _, ok := As(nil); ok {
		t.Error("expected As(nil) to be false")
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(fmt.Errorf("wrapped: %w", Transport(503, nil))) {
		t.Error("expected wrapped 503 to be retryable")
	}
	if IsRetryable(Transport(404, nil)) {
		t.Error("expected 404 not to be retryable")
	}
	if IsRetryable(stderrors.New("plain")) {
		t.Error("expected plain error not to be retryable")
	}
}

func TestErrorCodeSent(t *testing.T) {
	for _, code := range []ErrorCode{ErrCodeTransport, ErrCodeParse} {
		if !code.Sent() {
			t.Errorf("%s should count as sent", code)
		}
	}
	for _, code := range []ErrorCode{ErrCodeConnectionFailed, ErrCodeTimeout, ErrCodeInvalidInput, ErrCodeInternal} {
		if code.Sent() {
			t.Errorf("%s should not count as sent", code)
		}
	}
}
