package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/enclypt/enclypt/pkg/domain"
)

// Shimmer animation for the ENCLYPT logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "E N C L Y P T" as a flowing wave of blue light.
// Deep navy (#132a4a) -> bright sky (#38bdf8). No hue drift.
func renderShimmerLogo(frame int) string {
	const text = "ENCLYPT"
	n := len(text)

	var out string

	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		// Flowing phase — one smooth wave advancing through the text
		phase := t*0.1 - x*3.0

		// Gentle speed modulation
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		// Slow breathing tide
		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18

		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		// Continuous RGB interpolation: deep navy -> bright sky
		// Deep:   (19, 42, 74)    #132a4a
		// Bright: (56, 189, 248)  #38bdf8
		r := clampByte(19 + b*(56-19))
		g := clampByte(42 + b*(189-42))
		bl := clampByte(74 + b*(248-74))

		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color))
		out += s.Render(string(text[i]))

		if i < n-1 {
			out += "  "
		}
	}

	return out
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	// Base styles — enclypt neutral palette
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Accent / action styles
	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#38bdf8")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	// Account card
	cardLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#606878"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#38bdf8"))

	keyMaskStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#343c4a"))

	// Transfer form
	inputLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	inputFocusLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#38bdf8")).
				Bold(true)

	// Tier colors
	tierColors = map[domain.Tier]lipgloss.Color{
		domain.TierGuest:   lipgloss.Color("#8890a0"),
		domain.TierAccount: lipgloss.Color("#38bdf8"),
		domain.TierPaid:    lipgloss.Color("#d4a844"),
	}

	// Method colors — encryption methods in the files table and form
	methodColors = map[string]lipgloss.Color{
		"fernet": lipgloss.Color("#4ade80"),
		"aes256": lipgloss.Color("#38bdf8"),
		"rsa":    lipgloss.Color("#c084e0"),
	}
)

// TierStyle returns a bold style colored for the given tier.
func TierStyle(t domain.Tier) lipgloss.Style {
	if c, ok := tierColors[t]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")).Bold(true)
}

// MethodStyle returns a style colored for the given method string. Decrypt
// records arrive as "decrypt:<method>", so match on the suffix.
func MethodStyle(method string) lipgloss.Style {
	m := method
	if i := strings.IndexByte(m, ':'); i >= 0 {
		m = m[i+1:]
	}
	if c, ok := methodColors[m]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878"))
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

var helpItems = []helpItem{
	{"Terms of Service", "enclypt.io/terms", "https://enclypt.io/terms"},
	{"Privacy Policy", "enclypt.io/privacy", "https://enclypt.io/privacy"},
	{"FAQ", "enclypt.io/faq", "https://enclypt.io/faq"},
	{"Website", "enclypt.io", "https://enclypt.io"},
}

// helpView renders the interactive help overlay with a cursor.
func helpView(cursor int, version string) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#38bdf8")).
		Bold(true).
		Render("E N C L Y P T")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Your files, sealed server-side. " + version)

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#38bdf8"))
	linkDescStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	commands := []struct{ cmd, desc string }{
		{"enclypt", "Open the dashboard (interactive TUI)"},
		{"enclypt login", "Sign in with email and password"},
		{"enclypt logout", "Clear your session"},
		{"enclypt encrypt <file>", "Encrypt a file from the shell"},
		{"enclypt decrypt <file>", "Decrypt a file from the shell"},
		{"enclypt --version", "Show version"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n  %s\n\n", title, tagline)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-24s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Links (enter to open)"))
	for i, item := range helpItems {
		label := cmdStyle.Render(fmt.Sprintf("%-24s", item.label))
		prefix := "    "
		if i == cursor {
			label = cursorStyle.Render(fmt.Sprintf("%-24s", item.label))
			prefix = "  > "
		}
		fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, linkDescStyle.Render(item.desc))
	}
	return b.String()
}
