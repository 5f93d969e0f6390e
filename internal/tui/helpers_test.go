package tui

import (
	"strings"
	"testing"
	"time"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1 << 10, "1.0 KB"},
		{1536, "1.5 KB"},
		{1 << 20, "1.0 MB"},
		{5 << 20, "5.0 MB"},
		{1 << 30, "1.0 GB"},
	}
	for _, tc := range tests {
		if got := formatSize(tc.n); got != tc.want {
			t.Errorf("formatSize(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestFormatStampNaiveISO(t *testing.T) {
	// The server emits naive ISO-8601 without a zone; it must still parse.
	stamp := time.Now().UTC().Add(-2 * time.Hour).Format("2006-01-02T15:04:05.999999")
	got := formatStamp(stamp)
	if got == stamp {
		t.Errorf("formatStamp(%q) fell back to raw, want a relative age", stamp)
	}
}

func TestFormatStampRFC3339(t *testing.T) {
	stamp := time.Now().Add(-30 * time.Second).Format(time.RFC3339)
	if got := formatStamp(stamp); got != "just now" {
		t.Errorf("formatStamp(%q) = %q, want %q", stamp, got, "just now")
	}
}

func TestFormatStampUnparseable(t *testing.T) {
	if got := formatStamp("yesterday-ish"); got != "yesterday-ish" {
		t.Errorf("formatStamp fallback = %q, want the raw string", got)
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{49 * time.Hour, "2d ago"},
	}
	for _, tc := range tests {
		if got := formatAge(time.Now().Add(-tc.ago)); got != tc.want {
			t.Errorf("formatAge(-%v) = %q, want %q", tc.ago, got, tc.want)
		}
	}
}

func TestTruncStr(t *testing.T) {
	tests := []struct {
		s      string
		maxLen int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 5, "hell…"},
		{"", 5, ""},
		{"你好世界", 3, "你好…"},
	}
	for _, tc := range tests {
		if got := truncStr(tc.s, tc.maxLen); got != tc.want {
			t.Errorf("truncStr(%q, %d) = %q, want %q", tc.s, tc.maxLen, got, tc.want)
		}
	}
}

func TestTruncateToHeight(t *testing.T) {
	input := "line1\nline2\nline3\nline4"
	got := truncateToHeight(input, 2)
	if got != "line1\nline2" {
		t.Errorf("truncateToHeight = %q", got)
	}
	if truncateToHeight(input, 10) != input {
		t.Error("truncateToHeight should keep short content intact")
	}
	if truncateToHeight(input, 0) != "" {
		t.Error("truncateToHeight with no room should return empty")
	}
}

func TestMaskKeyFixedWidth(t *testing.T) {
	mask := maskKey()
	if n := strings.Count(mask, "•"); n != 24 {
		t.Errorf("maskKey() has %d bullets, want 24", n)
	}
	// The mask must never leak key length; two calls are identical.
	if mask != maskKey() {
		t.Error("maskKey() is not stable")
	}
}

func TestMethodStyleDecryptPrefix(t *testing.T) {
	// Decrypt records arrive as "decrypt:<method>" and must color like the
	// underlying method.
	plain := MethodStyle("fernet").Render("x")
	prefixed := MethodStyle("decrypt:fernet").Render("x")
	if plain != prefixed {
		t.Errorf("MethodStyle(decrypt:fernet) = %q, want same as fernet %q", prefixed, plain)
	}
}

func TestRenderShimmerLogoContainsLetters(t *testing.T) {
	for _, frame := range []int{0, 7, 100} {
		out := renderShimmerLogo(frame)
		for _, ch := range "ENCLYPT" {
			if !strings.Contains(out, string(ch)) {
				t.Errorf("frame %d: logo missing %q", frame, ch)
			}
		}
	}
}

func TestHelpViewListsLinks(t *testing.T) {
	view := helpView(0, "1.2.3")
	for _, item := range helpItems {
		if !strings.Contains(view, item.label) {
			t.Errorf("help view missing %q, got:\n%s", item.label, view)
		}
	}
	if !strings.Contains(view, "1.2.3") {
		t.Errorf("help view missing version, got:\n%s", view)
	}
	// Cursor marker on the selected row.
	if !strings.Contains(view, "> ") {
		t.Errorf("help view missing cursor marker, got:\n%s", view)
	}
}

func TestHelpEntryRendersKeyAndLabel(t *testing.T) {
	got := helpEntry("q", "quit")
	if !strings.Contains(got, "q") || !strings.Contains(got, "quit") {
		t.Errorf("helpEntry = %q", got)
	}
}
