package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/enclypt/enclypt/internal/browser"
	"github.com/enclypt/enclypt/internal/session"
	"github.com/enclypt/enclypt/pkg/client"
)

type view int

const (
	viewDashboard view = iota
	viewEncrypt
	viewDecrypt
)

// SessionEventMsg wraps a session transition delivered from outside the
// program (the manager's expiry timer fires on its own goroutine).
type SessionEventMsg struct {
	Event session.Event
}

// App is the root Bubbletea model.
type App struct {
	client     *client.Client
	version    string
	view       view
	dash       dashModel
	enc        transferModel
	dec        transferModel
	helpOpen   bool
	helpCursor int
	ended      bool // session expired or logged out underneath us
	endedMsg   string
	width      int
	height     int
	frame      int // logo shimmer animation frame
}

// NewApp creates a new TUI application.
func NewApp(c *client.Client, version string) App {
	return App{
		client:  c,
		version: version,
		dash:    newDashModel(c),
		enc:     newTransferModel(c, true),
		dec:     newTransferModel(c, false),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.dash.Init(), a.enc.Init(), shimmerTickCmd())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.dash, _ = a.dash.Update(bodyMsg)
		a.enc, _ = a.enc.Update(bodyMsg)
		a.dec, _ = a.dec.Update(bodyMsg)

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case SessionEventMsg:
		switch msg.Event.Kind {
		case session.EventExpired:
			a.ended = true
			a.endedMsg = "session expired"
			return a, tea.Quit
		case session.EventLogout:
			a.ended = true
			a.endedMsg = "logged out"
			return a, tea.Quit
		}
		return a, nil

	case tea.KeyMsg:
		// Help overlay captures all keys when open
		if a.helpOpen {
			switch msg.String() {
			case "?", "esc":
				a.helpOpen = false
			case "q", "ctrl+c":
				return a, tea.Quit
			case "j", "down":
				if a.helpCursor < len(helpItems)-1 {
					a.helpCursor++
				}
			case "k", "up":
				if a.helpCursor > 0 {
					a.helpCursor--
				}
			case "enter":
				item := helpItems[a.helpCursor]
				if item.url != "" {
					browser.Open(item.url) //nolint:errcheck // best-effort browser open
				}
			}
			return a, nil
		}

		// Global keys (only when no text field is capturing input)
		if !a.isEditing() {
			switch msg.String() {
			case "?":
				a.helpOpen = true
				a.helpCursor = 0
				return a, nil
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				if a.view != viewDashboard {
					a.view = viewDashboard
					return a, a.dash.load()
				}
				return a, nil
			case "2":
				a.view = viewEncrypt
				return a, nil
			case "3":
				a.view = viewDecrypt
				return a, nil
			}
		} else if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewDashboard:
		a.dash, cmd = a.dash.Update(msg)
	case viewEncrypt:
		a.enc, cmd = a.enc.Update(msg)
	case viewDecrypt:
		a.dec, cmd = a.dec.Update(msg)
	}

	return a, cmd
}

func (a App) isEditing() bool {
	switch a.view {
	case viewEncrypt:
		return a.enc.editing()
	case viewDecrypt:
		return a.dec.editing()
	}
	return false
}

// Ended reports whether the session ended underneath the TUI, and why. The
// caller prints the redirect hint after the program exits.
func (a App) Ended() (bool, string) {
	return a.ended, a.endedMsg
}

func (a App) View() string {
	// Header: centered shimmer logo
	logo := renderShimmerLogo(a.frame)
	logoWidth := lipgloss.Width(logo)
	logoPad := (a.width - logoWidth) / 2
	if logoPad < 0 {
		logoPad = 0
	}
	header := strings.Repeat(" ", logoPad) + logo + "\n"

	// Tab bar: 1 Dashboard  2 Encrypt  3 Decrypt
	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Dashboard", viewDashboard},
		{"2", "Encrypt", viewEncrypt},
		{"3", "Decrypt", viewDecrypt},
	}

	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}
	centeredTabs := tabBar.String()

	// Body + per-view help line
	var body string
	var help string
	switch a.view {
	case viewDashboard:
		body = a.dash.View()
		help = " " + helpEntry("1-3", "tabs") + "  " + helpEntry("j/k", "rows") + "  " + helpEntry("r", "refresh") + "  " + helpEntry("v", "key") + "  " + helpEntry("c", "copy") + "  " + helpEntry("?", "help") + "  " + helpEntry("q", "quit")
	case viewEncrypt:
		body = a.enc.View()
		help = transferHelp(a.enc)
	case viewDecrypt:
		body = a.dec.View()
		help = transferHelp(a.dec)
	}

	if a.helpOpen {
		body = helpView(a.helpCursor, a.version)
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("esc", "close")
	}

	// Chrome budget: header(2) + tabs(1) + help(1) = 4 lines + body
	chrome := 4
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, centeredTabs, body, help)
}

func transferHelp(m transferModel) string {
	if m.editing() {
		return " " + helpEntry("tab", "next field") + "  " + helpEntry("enter", "next/submit") + "  " + helpEntry("esc", "nav")
	}
	return " " + helpEntry("1-3", "tabs") + "  " + helpEntry("tab", "fields") + "  " + helpEntry("h/l", "method") + "  " + helpEntry("enter", "submit") + "  " + helpEntry("?", "help") + "  " + helpEntry("q", "quit")
}
