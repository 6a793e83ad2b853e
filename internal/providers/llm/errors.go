package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sandevgo/chatlens/pkg/retry"
)

var (
	ErrMissingCredential = errors.New("missing API key")
	ErrInvalidCredential = errors.New("invalid API key")
	ErrEmptyResponse     = errors.New("empty response")
)

// CredentialError reports a missing or rejected API key for a provider.
type CredentialError struct {
	Provider string
	EnvVar   string
	Missing  bool
	Detail   string
}

func (e *CredentialError) Error() string {
	if e.Missing {
		return fmt.Sprintf("%s: %s is not set", e.Provider, e.EnvVar)
	}
	return fmt.Sprintf("%s: API key rejected: %s", e.Provider, e.Detail)
}

func (e *CredentialError) Is(target error) bool {
	if e.Missing {
		return target == ErrMissingCredential
	}
	return target == ErrInvalidCredential
}

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// classify turns a non-2xx response into an error. Client errors are
// permanent; 429 and server errors may be retried.
func (b *baseProvider) classify(status int, body []byte) error {
	msg := errorMessage(body)

	if status == http.StatusUnauthorized || status == http.StatusForbidden ||
		strings.Contains(strings.ToLower(msg), "api key") {
		return retry.Permanent(&CredentialError{Provider: b.name, EnvVar: b.envVar, Detail: msg})
	}

	err := &HTTPError{Status: status, Message: msg}
	if status >= 400 && status < 500 && status != http.StatusTooManyRequests {
		return retry.Permanent(err)
	}
	return err
}

// errorMessage pulls a readable message out of the usual error envelopes:
// {"error":{"message":..}}, {"error":".."} or {"message":..}.
func errorMessage(body []byte) string {
	var env struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		var nested struct {
			Message string `json:"message"`
		}
		if len(env.Error) > 0 {
			if json.Unmarshal(env.Error, &nested) == nil && nested.Message != "" {
				return nested.Message
			}
			var s string
			if json.Unmarshal(env.Error, &s) == nil && s != "" {
				return s
			}
		}
		if env.Message != "" {
			return env.Message
		}
	}

	text := strings.TrimSpace(string(body))
	if len(text) > 300 {
		text = text[:300] + "..."
	}
	if text == "" {
		text = "no response body"
	}
	return text
}
