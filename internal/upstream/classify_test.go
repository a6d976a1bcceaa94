package upstream

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-resty/resty/v2"
)

func newResponse(status int, header http.Header, url string) *resty.Response {
	if header == nil {
		header = http.Header{}
	}
	return &resty.Response{
		Request:     &resty.Request{URL: url},
		RawResponse: &http.Response{StatusCode: status, Header: header},
	}
}

func TestClassify_TransportErrorIsTransient(t *testing.T) {
	err := classify(nil, errors.New("connection reset"))

	var transient *TransientNetworkError
	if !errors.As(err, &transient) {
		t.Fatalf("expected TransientNetworkError, got %v", err)
	}
}

func TestClassify_NotFoundAndGoneAreNotFound(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusGone} {
		err := classify(newResponse(status, nil, "https://i.instagram.com/api/v1/media/1/info/"), nil)
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("status %d: expected NotFoundError, got %v", status, err)
		}
	}
}

func TestClassify_TooManyRequestsUsesRetryAfterHeader(t *testing.T) {
	header := http.Header{}
	header.Set("Retry-After", "120")
	err := classify(newResponse(http.StatusTooManyRequests, header, ""), nil)

	var rateLimit *RateLimitError
	if !errors.As(err, &rateLimit) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if rateLimit.RetryAfter != 120 {
		t.Errorf("expected RetryAfter 120, got %d", rateLimit.RetryAfter)
	}
}

func TestClassify_TooManyRequestsDefaultsRetryAfterWhenMissing(t *testing.T) {
	err := classify(newResponse(http.StatusTooManyRequests, nil, ""), nil)

	var rateLimit *RateLimitError
	if !errors.As(err, &rateLimit) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if rateLimit.RetryAfter != 60 {
		t.Errorf("expected default RetryAfter 60, got %d", rateLimit.RetryAfter)
	}
}

func TestClassify_UnauthorizedAndForbiddenAreAuthErrors(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		err := classify(newResponse(status, nil, ""), nil)
		var authErr *AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("status %d: expected AuthError, got %v", status, err)
		}
	}
}

func TestClassify_ServerErrorIsTransient(t *testing.T) {
	err := classify(newResponse(http.StatusServiceUnavailable, nil, ""), nil)
	var transient *TransientNetworkError
	if !errors.As(err, &transient) {
		t.Fatalf("expected TransientNetworkError, got %v", err)
	}
}

func TestClassify_OKIsNil(t *testing.T) {
	if err := classify(newResponse(http.StatusOK, nil, ""), nil); err != nil {
		t.Errorf("expected nil error on 200, got %v", err)
	}
}

func TestIsTransient_OnlyMatchesTransientNetworkError(t *testing.T) {
	if !isTransient(&TransientNetworkError{Err: errors.New("boom")}) {
		t.Error("expected TransientNetworkError to be retriable")
	}
	if isTransient(&NotFoundError{Target: "x"}) {
		t.Error("expected NotFoundError to not be retriable")
	}
}
