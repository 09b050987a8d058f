package assistant

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	"github.com/aws/smithy-go"
	"google.golang.org/api/googleapi"

	"github.com/wolfman30/ward-portal/internal/locale"
)

var (
	// ErrMissingCredential is returned when no model API key is configured.
	ErrMissingCredential = errors.New("assistant: missing API credential")

	// ErrBusy is returned when a session already has a request in flight.
	ErrBusy = errors.New("assistant: session is awaiting a response")

	// ErrEmptyInput is returned for blank user messages.
	ErrEmptyInput = errors.New("assistant: message is empty")

	// ErrSessionClosed is returned once a session has been torn down.
	ErrSessionClosed = errors.New("assistant: session closed")

	// ErrSessionReset is returned to a sender whose reply was discarded by Reset.
	ErrSessionReset = errors.New("assistant: session was reset")

	// ErrSessionNotFound is returned for unknown session ids.
	ErrSessionNotFound = errors.New("assistant: session not found")
)

// ErrorKind groups model failures into what the citizen is told.
type ErrorKind string

const (
	KindNone              ErrorKind = ""
	KindMissingCredential ErrorKind = "missing_credential"
	KindQuotaExhausted    ErrorKind = "quota_exhausted"
	KindInvalidCredential ErrorKind = "invalid_credential"
	KindNetwork           ErrorKind = "network"
	KindOther             ErrorKind = "other"
)

// ClassifyError maps a provider error onto an ErrorKind.
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrMissingCredential) {
		return KindMissingCredential
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if kind := kindForStatus(gerr.Code); kind != KindOther {
			return kind
		}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "ServiceQuotaExceededException", "TooManyRequestsException":
			return KindQuotaExhausted
		case "AccessDeniedException", "UnrecognizedClientException", "InvalidSignatureException", "ExpiredTokenException":
			return KindInvalidCredential
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "resource_exhausted"),
		strings.Contains(msg, "quota"),
		strings.Contains(msg, "429"):
		return KindQuotaExhausted
	case strings.Contains(msg, "api key not valid"),
		strings.Contains(msg, "api_key_invalid"),
		strings.Contains(msg, "permission_denied"),
		strings.Contains(msg, "unauthenticated"),
		strings.Contains(msg, "401"),
		strings.Contains(msg, "403"):
		return KindInvalidCredential
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return KindNetwork
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetwork
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return KindNetwork
	}
	if strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") || strings.Contains(msg, "unavailable") {
		return KindNetwork
	}
	return KindOther
}

func kindForStatus(code int) ErrorKind {
	switch code {
	case http.StatusTooManyRequests:
		return KindQuotaExhausted
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindInvalidCredential
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return KindNetwork
	default:
		return KindOther
	}
}

// Apology returns the localized text shown for kind.
func Apology(kind ErrorKind, lang locale.Language) string {
	strs := locale.Strings(lang)
	switch kind {
	case KindMissingCredential:
		return strs.ApologyMissingKey
	case KindQuotaExhausted:
		return strs.ApologyQuota
	case KindInvalidCredential:
		return strs.ApologyInvalidKey
	case KindNetwork:
		return strs.ApologyNetwork
	default:
		return strs.ApologyGeneric
	}
}
