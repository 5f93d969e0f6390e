package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/enclypt/enclypt/pkg/client"
	"github.com/enclypt/enclypt/pkg/domain"
)

// -- messages --

type dashLoadedMsg struct {
	data *domain.DashboardData
	err  error
}

type keyLoadedMsg struct {
	key string
	err error
}

type keyCopiedMsg struct{ err error }

// -- model --

type dashModel struct {
	client *client.Client
	table  table.Model

	data       *domain.DashboardData
	licenseKey string
	showKey    bool
	loadingKey bool
	loading    bool
	statusMsg  string
	err        error

	width  int
	height int
}

func newDashModel(c *client.Client) dashModel {
	cols := []table.Column{
		{Title: "File", Width: 34},
		{Title: "Size", Width: 10},
		{Title: "Method", Width: 16},
		{Title: "When", Width: 14},
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#1e1e2a")).
		BorderBottom(true).
		Bold(false).
		Foreground(lipgloss.Color("#606878"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#e4e4ec")).
		Background(lipgloss.Color("#1e1e2a")).
		Bold(false)
	t.SetStyles(s)

	return dashModel{client: c, table: t, loading: true}
}

func (m dashModel) Init() tea.Cmd {
	return m.load()
}

func (m dashModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		data, err := c.Dashboard(context.Background())
		return dashLoadedMsg{data: data, err: err}
	}
}

func (m dashModel) loadKey() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		key, err := c.LicenseKey(context.Background())
		return keyLoadedMsg{key: key, err: err}
	}
}

func copyKeyCmd(key string) tea.Cmd {
	return func() tea.Msg {
		return keyCopiedMsg{err: clipboard.WriteAll(key)}
	}
}

func (m dashModel) Update(msg tea.Msg) (dashModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Account card above the table takes 6 lines of the body.
		h := msg.Height - 6
		if h < 3 {
			h = 3
		}
		m.table.SetHeight(h)
		return m, nil

	case dashLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.data = msg.data
		rows := make([]table.Row, 0, len(msg.data.Files))
		for _, f := range msg.data.Files {
			rows = append(rows, table.Row{
				truncStr(f.Filename, 33),
				formatSize(f.Size),
				MethodStyle(f.Method).Render(f.Method),
				formatStamp(f.Timestamp),
			})
		}
		m.table.SetRows(rows)
		return m, nil

	case keyLoadedMsg:
		m.loadingKey = false
		if msg.err != nil {
			m.statusMsg = errorStyle.Render(fmt.Sprintf("failed to load key: %v", msg.err))
			m.showKey = false
			return m, nil
		}
		m.licenseKey = msg.key
		return m, nil

	case keyCopiedMsg:
		if msg.err != nil {
			m.statusMsg = errorStyle.Render("copy failed (no clipboard available)")
		} else {
			m.statusMsg = successStyle.Render("license key copied")
		}
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.load()
		case "v":
			m.showKey = !m.showKey
			if m.showKey && m.licenseKey == "" && !m.loadingKey {
				m.loadingKey = true
				return m, m.loadKey()
			}
			return m, nil
		case "c":
			if m.showKey && m.licenseKey != "" {
				return m, copyKeyCmd(m.licenseKey)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m dashModel) View() string {
	if m.loading {
		return "\n  " + dimStyle.Render("loading dashboard...")
	}
	if m.err != nil {
		return "\n  " + errorStyle.Render("error: "+m.err.Error()) + "\n  " + dimStyle.Render("press r to retry")
	}
	if m.data == nil {
		return "\n  " + dimStyle.Render("no dashboard data")
	}

	var b strings.Builder

	// Account card
	b.WriteString(" " + cardLabelStyle.Render("email ") + normalStyle.Render(m.data.Email))
	b.WriteString("   " + cardLabelStyle.Render("tier ") + TierStyle(m.data.Tier).Render(m.data.Tier.Display()))
	if m.data.Tier.HasOfflineUnlocker() {
		b.WriteString("   " + warnStyle.Render("offline unlocker available — enclypt unlocker"))
	}
	b.WriteString("\n")

	// License key line
	b.WriteString(" " + cardLabelStyle.Render("key   "))
	switch {
	case !m.showKey:
		b.WriteString(keyMaskStyle.Render(maskKey()) + "  " + metaStyle.Render("v to reveal"))
	case m.loadingKey:
		b.WriteString(dimStyle.Render("fetching key..."))
	default:
		b.WriteString(keyStyle.Render(m.licenseKey) + "  " + metaStyle.Render("c to copy"))
	}
	b.WriteString("\n")

	if m.statusMsg != "" {
		b.WriteString(" " + m.statusMsg + "\n")
	} else {
		b.WriteString("\n")
	}

	// Files table
	count := len(m.data.Files)
	if count == 0 {
		b.WriteString("\n  " + dimStyle.Render("no files processed yet — try 2 Encrypt"))
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n " + metaStyle.Render(fmt.Sprintf("%d files", count)))
	}

	return b.String()
}
