package tui

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/enclypt/enclypt/pkg/client"
	"github.com/enclypt/enclypt/pkg/domain"
)

// transferField identifies the focusable rows of the form.
type transferField int

const (
	fieldPath transferField = iota
	fieldMethod
	fieldRSAKey
)

// transferDoneMsg carries the result of an encrypt/decrypt round trip.
type transferDoneMsg struct {
	encrypt bool
	outPath string
	err     error
}

// transferModel is the shared encrypt/decrypt form. The two views differ
// only in direction and in which RSA key the server expects.
type transferModel struct {
	client  *client.Client
	encrypt bool

	path    textinput.Model
	rsaKey  textinput.Model
	method  domain.Method
	focus   transferField
	spin    spinner.Model
	running bool

	statusMsg string
	err       error

	width  int
	height int
}

func newTransferModel(c *client.Client, encrypt bool) transferModel {
	path := textinput.New()
	path.Placeholder = "path/to/file"
	path.Prompt = "> "
	path.PromptStyle = accentStyle
	path.Focus()

	rsaKey := textinput.New()
	rsaKey.Prompt = "> "
	rsaKey.PromptStyle = accentStyle
	if encrypt {
		rsaKey.Placeholder = "path/to/public.pem"
	} else {
		rsaKey.Placeholder = "path/to/private.pem"
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	return transferModel{
		client:  c,
		encrypt: encrypt,
		path:    path,
		rsaKey:  rsaKey,
		method:  domain.MethodFernet,
		spin:    sp,
	}
}

func (m transferModel) Init() tea.Cmd {
	return textinput.Blink
}

// editing reports whether a text field currently captures keystrokes, so the
// root model knows to withhold global shortcuts.
func (m transferModel) editing() bool {
	return m.path.Focused() || m.rsaKey.Focused()
}

func (m transferModel) Update(msg tea.Msg) (transferModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := msg.Width - 8
		if w > 60 {
			w = 60
		}
		if w < 20 {
			w = 20
		}
		m.path.Width = w
		m.rsaKey.Width = w
		return m, nil

	case transferDoneMsg:
		m.running = false
		if msg.err != nil {
			m.err = msg.err
			m.statusMsg = ""
			return m, nil
		}
		m.err = nil
		m.statusMsg = fmt.Sprintf("wrote %s", msg.outPath)
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.running {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m transferModel) updateKeys(msg tea.KeyMsg) (transferModel, tea.Cmd) {
	m.statusMsg = ""

	switch msg.String() {
	case "tab", "shift+tab":
		m.focus = m.nextFocus(msg.String() == "shift+tab")
		return m.applyFocus(), nil

	case "enter":
		if m.focus == m.lastField() {
			return m.submit()
		}
		m.focus = m.nextFocus(false)
		return m.applyFocus(), nil

	case "esc":
		m.path.Blur()
		m.rsaKey.Blur()
		return m, nil
	}

	// Method row: cycle with h/l like any selector.
	if m.focus == fieldMethod {
		switch msg.String() {
		case "l", "right":
			m.method = domain.NextMethod(m.method)
			return m, nil
		case "h", "left":
			m.method = domain.PrevMethod(m.method)
			return m, nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldPath:
		m.path, cmd = m.path.Update(msg)
	case fieldRSAKey:
		m.rsaKey, cmd = m.rsaKey.Update(msg)
	}
	return m, cmd
}

// lastField is the row whose enter submits: the RSA key row when visible,
// the method row otherwise.
func (m transferModel) lastField() transferField {
	if m.method.NeedsKeyMaterial() {
		return fieldRSAKey
	}
	return fieldMethod
}

func (m transferModel) nextFocus(back bool) transferField {
	fields := []transferField{fieldPath, fieldMethod}
	if m.method.NeedsKeyMaterial() {
		fields = append(fields, fieldRSAKey)
	}
	idx := 0
	for i, f := range fields {
		if f == m.focus {
			idx = i
			break
		}
	}
	if back {
		idx = (idx - 1 + len(fields)) % len(fields)
	} else {
		idx = (idx + 1) % len(fields)
	}
	return fields[idx]
}

func (m transferModel) applyFocus() transferModel {
	m.path.Blur()
	m.rsaKey.Blur()
	switch m.focus {
	case fieldPath:
		m.path.Focus()
	case fieldRSAKey:
		m.rsaKey.Focus()
	}
	return m
}

func (m transferModel) submit() (transferModel, tea.Cmd) {
	path := strings.TrimSpace(m.path.Value())
	if path == "" {
		m.statusMsg = errorStyle.Render("select a file first")
		return m, nil
	}
	keyPath := strings.TrimSpace(m.rsaKey.Value())
	if m.method.NeedsKeyMaterial() && keyPath == "" {
		if m.encrypt {
			m.statusMsg = errorStyle.Render("RSA public key is required")
		} else {
			m.statusMsg = errorStyle.Render("RSA private key is required")
		}
		return m, nil
	}

	m.running = true
	m.err = nil
	return m, tea.Batch(m.spin.Tick, m.runTransfer(path, keyPath))
}

func (m transferModel) runTransfer(path, keyPath string) tea.Cmd {
	c := m.client
	encrypt := m.encrypt
	method := m.method
	return func() tea.Msg {
		out, err := transferFile(context.Background(), c, encrypt, path, method, keyPath)
		return transferDoneMsg{encrypt: encrypt, outPath: out, err: err}
	}
}

// transferFile reads the input, runs it through the API, and writes the
// transformed file next to the original under the server-suggested name.
func transferFile(ctx context.Context, c *client.Client, encrypt bool, path string, method domain.Method, keyPath string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	var rsaKey string
	if method.NeedsKeyMaterial() {
		keyData, err := os.ReadFile(keyPath)
		if err != nil {
			return "", fmt.Errorf("read key %s: %w", keyPath, err)
		}
		rsaKey = string(keyData)
	}

	req := client.TransferRequest{
		Filename: filepath.Base(path),
		Data:     bytes.NewReader(data),
		Method:   method,
		RSAKey:   rsaKey,
	}

	var res *client.TransferResult
	if encrypt {
		res, err = c.Encrypt(ctx, req)
	} else {
		res, err = c.Decrypt(ctx, req)
	}
	if err != nil {
		return "", err
	}

	outPath := filepath.Join(filepath.Dir(path), res.Filename)
	if err := os.WriteFile(outPath, res.Data, 0600); err != nil {
		return "", fmt.Errorf("write %s: %w", outPath, err)
	}
	return outPath, nil
}

func (m transferModel) View() string {
	var b strings.Builder

	title := "Encrypt a File"
	action := "encrypt"
	if !m.encrypt {
		title = "Decrypt a File"
		action = "decrypt"
	}
	b.WriteString("\n " + selectedStyle.Render(title) + "\n\n")

	b.WriteString(" " + m.fieldLabel("file", fieldPath) + "\n")
	b.WriteString(" " + m.path.View() + "\n\n")

	b.WriteString(" " + m.fieldLabel("method", fieldMethod) + "\n")
	b.WriteString(" " + m.methodSelector() + "\n")

	if m.method.NeedsKeyMaterial() {
		label := "rsa public key"
		if !m.encrypt {
			label = "rsa private key"
		}
		b.WriteString("\n " + m.fieldLabel(label, fieldRSAKey) + "\n")
		b.WriteString(" " + m.rsaKey.View() + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.running:
		b.WriteString(" " + m.spin.View() + dimStyle.Render(action+"ing..."))
	case m.err != nil:
		b.WriteString(" " + errorStyle.Render("failed: "+m.err.Error()))
	case m.statusMsg != "":
		if strings.HasPrefix(m.statusMsg, "wrote ") {
			b.WriteString(" " + successStyle.Render(m.statusMsg))
		} else {
			b.WriteString(" " + m.statusMsg)
		}
	}

	return b.String()
}

func (m transferModel) fieldLabel(label string, f transferField) string {
	if m.focus == f {
		return inputFocusLabelStyle.Render(label)
	}
	return inputLabelStyle.Render(label)
}

func (m transferModel) methodSelector() string {
	parts := make([]string, 0, len(domain.ValidMethods))
	for _, v := range domain.ValidMethods {
		label := v.Display()
		if v == m.method {
			c := methodColors[string(v)]
			parts = append(parts, lipgloss.NewStyle().Foreground(c).Bold(true).Render("["+label+"]"))
		} else {
			parts = append(parts, metaStyle.Render(" "+label+" "))
		}
	}
	sel := strings.Join(parts, " ")
	if m.focus == fieldMethod {
		sel += "  " + metaStyle.Render("h/l to change")
	}
	return sel
}
