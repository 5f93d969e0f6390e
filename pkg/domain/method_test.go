package domain

import "testing"

func TestMethodValid(t *testing.T) {
	for _, m := range ValidMethods {
		if !m.Valid() {
			t.Errorf("%q.Valid() = false, want true", m)
		}
	}
	for _, m := range []Method{"", "rot13", "FERNET", "aes"} {
		if m.Valid() {
			t.Errorf("%q.Valid() = true, want false", m)
		}
	}
}

func TestMethodDisplay(t *testing.T) {
	if got := MethodFernet.Display(); got != "Fernet (AES-128)" {
		t.Errorf("Display() = %q", got)
	}
	if got := MethodAES256.Display(); got != "AES-256" {
		t.Errorf("Display() = %q", got)
	}
	if got := MethodRSA.Display(); got != "RSA-OAEP" {
		t.Errorf("Display() = %q", got)
	}
	// Unknown methods fall back to the raw value.
	if got := Method("x25519").Display(); got != "x25519" {
		t.Errorf("Display() = %q, want raw value", got)
	}
}

func TestNeedsKeyMaterial(t *testing.T) {
	if MethodFernet.NeedsKeyMaterial() || MethodAES256.NeedsKeyMaterial() {
		t.Error("symmetric methods must not require key material")
	}
	if !MethodRSA.NeedsKeyMaterial() {
		t.Error("rsa must require key material")
	}
}

func TestMethodCycling(t *testing.T) {
	if got := NextMethod(MethodFernet); got != MethodAES256 {
		t.Errorf("NextMethod(fernet) = %q", got)
	}
	if got := NextMethod(MethodRSA); got != MethodFernet {
		t.Errorf("NextMethod(rsa) = %q, want wrap to fernet", got)
	}
	if got := PrevMethod(MethodFernet); got != MethodRSA {
		t.Errorf("PrevMethod(fernet) = %q, want wrap to rsa", got)
	}
	if got := NextMethod(Method("bogus")); got != MethodFernet {
		t.Errorf("NextMethod(bogus) = %q, want first method", got)
	}
}
