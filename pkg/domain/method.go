package domain

// Method identifies a server-side encryption method.
type Method string

const (
	MethodFernet Method = "fernet"
	MethodAES256 Method = "aes256"
	MethodRSA    Method = "rsa"
)

// ValidMethods lists the methods the API accepts, in display order.
var ValidMethods = []Method{MethodFernet, MethodAES256, MethodRSA}

// Valid reports whether m is a method the API accepts.
func (m Method) Valid() bool {
	for _, v := range ValidMethods {
		if m == v {
			return true
		}
	}
	return false
}

// Display returns the human-readable label for a method.
func (m Method) Display() string {
	switch m {
	case MethodFernet:
		return "Fernet (AES-128)"
	case MethodAES256:
		return "AES-256"
	case MethodRSA:
		return "RSA-OAEP"
	default:
		return string(m)
	}
}

// NeedsKeyMaterial reports whether the method requires user-supplied key
// material (RSA needs a public key to encrypt, a private key to decrypt).
func (m Method) NeedsKeyMaterial() bool {
	return m == MethodRSA
}

// NextMethod returns the method after m in display order, wrapping around.
func NextMethod(m Method) Method {
	for i, v := range ValidMethods {
		if m == v {
			return ValidMethods[(i+1)%len(ValidMethods)]
		}
	}
	return ValidMethods[0]
}

// PrevMethod returns the method before m in display order, wrapping around.
func PrevMethod(m Method) Method {
	for i, v := range ValidMethods {
		if m == v {
			return ValidMethods[(i-1+len(ValidMethods))%len(ValidMethods)]
		}
	}
	return ValidMethods[0]
}
