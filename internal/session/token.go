package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrMalformedToken reports a token whose payload segment could not be
// decoded: wrong segment count, invalid base64url, or invalid JSON.
var ErrMalformedToken = errors.New("malformed token")

// Claims holds what the client extracts from a bearer token's payload. The
// token is otherwise opaque — only the optional expiry matters here.
type Claims struct {
	Expiry    time.Time
	HasExpiry bool
}

// Decode extracts Claims from the token's second segment (base64url JSON).
// A structurally valid payload without an "exp" field yields zero Claims and
// no error; any structural failure yields ErrMalformedToken. Callers decide
// what a malformed token means — Decode never swallows the distinction.
func Decode(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, ErrMalformedToken
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return Claims{}, ErrMalformedToken
	}
	var payload struct {
		Exp *float64 `json:"exp"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Claims{}, ErrMalformedToken
	}
	if payload.Exp == nil {
		return Claims{}, nil
	}
	return Claims{Expiry: time.Unix(int64(*payload.Exp), 0), HasExpiry: true}, nil
}
