package session

import (
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
	"time"
)

// mintToken builds a three-segment token whose payload is the given JSON.
// Header and signature are filler: the client never inspects them.
func mintToken(payloadJSON string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(payloadJSON))
	return header + "." + payload + ".sig"
}

func mintTokenExp(exp time.Time) string {
	return mintToken(fmt.Sprintf(`{"sub":"me@example.com","exp":%d}`, exp.Unix()))
}

func TestDecodeExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	claims, err := Decode(mintTokenExp(exp))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if !claims.HasExpiry {
		t.Fatal("HasExpiry = false, want true")
	}
	if !claims.Expiry.Equal(exp) {
		t.Errorf("Expiry = %v, want %v", claims.Expiry, exp)
	}
}

func TestDecodeNoExp(t *testing.T) {
	claims, err := Decode(mintToken(`{"sub":"me@example.com"}`))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if claims.HasExpiry {
		t.Error("HasExpiry = true for a payload without exp")
	}
}

func TestDecodeFractionalExp(t *testing.T) {
	claims, err := Decode(mintToken(`{"exp":1767225600.75}`))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got := claims.Expiry.Unix(); got != 1767225600 {
		t.Errorf("Expiry.Unix() = %d, want 1767225600", got)
	}
}

func TestDecodeWrongSegmentCount(t *testing.T) {
	for _, tok := range []string{"", "abc", "a.b", "a.b.c.d"} {
		if _, err := Decode(tok); !errors.Is(err, ErrMalformedToken) {
			t.Errorf("Decode(%q) error = %v, want ErrMalformedToken", tok, err)
		}
	}
}

func TestDecodeBadBase64(t *testing.T) {
	if _, err := Decode("hdr.!!!not-base64!!!.sig"); !errors.Is(err, ErrMalformedToken) {
		t.Errorf("error = %v, want ErrMalformedToken", err)
	}
}

func TestDecodeBadJSON(t *testing.T) {
	payload := base64.RawURLEncoding.EncodeToString([]byte("not json"))
	if _, err := Decode("hdr." + payload + ".sig"); !errors.Is(err, ErrMalformedToken) {
		t.Errorf("error = %v, want ErrMalformedToken", err)
	}
}

func TestDecodePaddedPayload(t *testing.T) {
	// Some issuers emit standard-padded base64url; trailing '=' must not trip
	// the raw decoder.
	payload := base64.URLEncoding.EncodeToString([]byte(`{"exp":1767225600}`))
	claims, err := Decode("hdr." + payload + ".sig")
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if !claims.HasExpiry {
		t.Error("HasExpiry = false, want true")
	}
}
