package domain

import "testing"

func TestTierDisplay(t *testing.T) {
	cases := map[Tier]string{
		TierGuest:     "Guest",
		TierAccount:   "Account",
		TierPaid:      "Paid",
		Tier("trial"): "trial",
	}
	for tier, want := range cases {
		if got := tier.Display(); got != want {
			t.Errorf("%q.Display() = %q, want %q", tier, got, want)
		}
	}
}

func TestHasOfflineUnlocker(t *testing.T) {
	if TierGuest.HasOfflineUnlocker() || TierAccount.HasOfflineUnlocker() {
		t.Error("only paid accounts get the offline unlocker")
	}
	if !TierPaid.HasOfflineUnlocker() {
		t.Error("paid accounts get the offline unlocker")
	}
}
