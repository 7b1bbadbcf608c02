package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"didclient/internal/domain"
)

// decodeResponse turns a non-2xx response into a RequestFailedError and
// decodes a 2xx body into out. Empty bodies leave out untouched.
func decodeResponse(resp *http.Response, out any) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode/100 != 2 {
		return &domain.RequestFailedError{
			StatusCode: resp.StatusCode,
			Message:    serverMessage(body),
		}
	}
	if err != nil {
		return &domain.NetworkError{Method: resp.Request.Method, Endpoint: resp.Request.URL.Path, Err: err}
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return nil
}

// serverMessage extracts a human-readable reason from an error body.
//
// FastAPI-style services answer {"detail": "..."} or, for validation
// failures, {"detail": [{"msg": "..."}, ...]}; others use {"message": "..."}.
// A bare JSON string is unquoted. Short plain-text bodies are passed through.
func serverMessage(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(body, &text); err == nil {
		return text
	}

	var env struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		if msg := detailMessage(env.Detail); msg != "" {
			return msg
		}
		if env.Message != "" {
			return env.Message
		}
		return env.Error
	}

	if len(body) <= 200 && utf8.Valid(body) {
		return string(body)
	}
	return ""
}

func detailMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
