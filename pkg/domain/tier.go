package domain

// Tier is an account classification returned by the API. It gates which
// features the server allows; the client only displays it.
type Tier string

const (
	TierGuest   Tier = "guest"
	TierAccount Tier = "account"
	TierPaid    Tier = "paid"
)

// Display returns the capitalized label for a tier.
func (t Tier) Display() string {
	switch t {
	case TierGuest:
		return "Guest"
	case TierAccount:
		return "Account"
	case TierPaid:
		return "Paid"
	default:
		return string(t)
	}
}

// HasOfflineUnlocker reports whether the tier includes the downloadable
// offline unlocker. Enforced server-side; this only drives the UI hint.
func (t Tier) HasOfflineUnlocker() bool {
	return t == TierPaid
}
