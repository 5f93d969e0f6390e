package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/enclypt/enclypt/internal/browser"
	"github.com/enclypt/enclypt/internal/config"
	"github.com/enclypt/enclypt/internal/session"
	"github.com/enclypt/enclypt/internal/tui"
	"github.com/enclypt/enclypt/pkg/client"
	"github.com/enclypt/enclypt/pkg/domain"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("enclypt " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "terms":
			return openLegal(cfg, "terms")
		case "privacy":
			return openLegal(cfg, "privacy")
		case "faq":
			return openLegal(cfg, "faq")
		case "login":
			return runLogin(cfg)
		case "register":
			return runRegister(cfg)
		case "logout":
			return runLogout()
		case "encrypt":
			return runTransfer(cfg, true, os.Args[2:])
		case "decrypt":
			return runTransfer(cfg, false, os.Args[2:])
		case "dashboard":
			return runDashboard(cfg, os.Args[2:])
		case "key":
			return runKey(cfg)
		case "unlocker":
			return runUnlocker(cfg)
		default:
			printHelp()
			return fmt.Errorf("unknown command %q", os.Args[1])
		}
	}

	return runTUI(cfg)
}

// newManager builds the single session manager instance from the token file.
func newManager(opts ...session.Option) (*session.Manager, error) {
	path, err := session.DefaultStorePath()
	if err != nil {
		return nil, err
	}
	return session.NewManager(session.NewFileStore(path), opts...), nil
}

// currentToken returns the auth token using precedence: env var > session.
func currentToken(mgr *session.Manager) string {
	if tok := os.Getenv("ENCLYPT_TOKEN"); tok != "" {
		return tok
	}
	return mgr.Token()
}

func runTUI(cfg config.Config) error {
	mgr, err := newManager()
	if err != nil {
		return err
	}
	defer mgr.Close()

	token := currentToken(mgr)
	if token == "" {
		printLanding()
		return nil
	}

	c := client.NewWithTimeout(cfg.APIURL, token, cfg.Timeout())
	// Only force re-login on actual auth failures (401), not transient errors.
	if _, err := c.Dashboard(context.Background()); err != nil {
		if client.IsStatus(err, 401) {
			printLanding()
			return nil
		}
		// Network/server error — launch TUI anyway, it retries internally.
	}

	return launchTUI(cfg, mgr, c)
}

func launchTUI(cfg config.Config, mgr *session.Manager, c *client.Client) error {
	app := tui.NewApp(c, version)
	p := tea.NewProgram(app, tea.WithAltScreen())

	// The expiry timer fires on its own goroutine; route transitions into
	// the program so the TUI can redirect.
	mgr.SetNotify(func(ev session.Event) {
		p.Send(tui.SessionEventMsg{Event: ev})
	})
	defer mgr.SetNotify(nil)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	if a, ok := final.(tui.App); ok {
		if ended, why := a.Ended(); ended {
			color.Yellow("%s — run enclypt login to sign in again", why)
		}
	}
	return nil
}

func runLogin(cfg config.Config) error {
	email, password, err := promptCredentials(false)
	if err != nil {
		return err
	}

	c := client.NewWithTimeout(cfg.APIURL, "", cfg.Timeout())
	token, err := c.Login(context.Background(), email, password)
	if err != nil {
		if errors.Is(err, client.ErrTimeout) {
			return fmt.Errorf("login timed out — check your connection and try again")
		}
		return fmt.Errorf("login failed: %w", err)
	}

	mgr, err := newManager(session.WithNotify(func(ev session.Event) {
		if ev.Kind == session.EventStoreWarning {
			color.Yellow("warning: could not persist session: %v", ev.Err)
		}
	}))
	if err != nil {
		return err
	}
	defer mgr.Close()

	if err := mgr.Login(token); err != nil {
		if errors.Is(err, session.ErrTokenExpired) {
			return fmt.Errorf("server returned an already-expired token — check your system clock")
		}
		return err
	}
	color.Green("Signed in as %s", email)

	// Land on the dashboard straight away, like the web app does.
	authed := client.NewWithTimeout(cfg.APIURL, mgr.Token(), cfg.Timeout())
	return launchTUI(cfg, mgr, authed)
}

func runRegister(cfg config.Config) error {
	email, password, err := promptCredentials(true)
	if err != nil {
		return err
	}

	c := client.NewWithTimeout(cfg.APIURL, "", cfg.Timeout())
	if err := c.Register(context.Background(), email, password); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	color.Green("Account created — run enclypt login to sign in")
	return nil
}

// promptCredentials reads email and password from the terminal, without
// echoing the password. Registration asks for the password twice.
func promptCredentials(confirm bool) (string, string, error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("read email: %w", err)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return "", "", fmt.Errorf("email is required")
	}

	fmt.Print("password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", "", fmt.Errorf("read password: %w", err)
	}
	if len(pw) == 0 {
		return "", "", fmt.Errorf("password is required")
	}

	if confirm {
		fmt.Print("confirm password: ")
		pw2, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		if !bytes.Equal(pw, pw2) {
			return "", "", fmt.Errorf("passwords do not match")
		}
	}

	return email, string(pw), nil
}

func runLogout() error {
	path, err := session.DefaultStorePath()
	if err != nil {
		return err
	}
	store := session.NewFileStore(path)
	tok, err := store.Load()
	if err == nil && tok == "" {
		fmt.Println("Already logged out.")
		return nil
	}
	mgr := session.NewManager(store)
	mgr.Logout()
	fmt.Println("Logged out.")
	return nil
}

func runTransfer(cfg config.Config, encrypt bool, args []string) error {
	name := "decrypt"
	if encrypt {
		name = "encrypt"
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	method := fs.String("method", string(domain.MethodFernet), "encryption method: fernet, aes256 or rsa")
	keyPath := fs.String("rsa-key", "", "path to the RSA key PEM (public to encrypt, private to decrypt)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path := fs.Arg(0)
	if path == "" {
		return fmt.Errorf("usage: enclypt %s [-method m] [-rsa-key key.pem] <file>", name)
	}

	m := domain.Method(*method)
	if !m.Valid() {
		return fmt.Errorf("invalid method %q (want fernet, aes256 or rsa)", *method)
	}
	if m.NeedsKeyMaterial() && *keyPath == "" {
		return fmt.Errorf("method rsa requires -rsa-key")
	}

	mgr, err := newManager()
	if err != nil {
		return err
	}
	defer mgr.Close()
	token := currentToken(mgr)
	if token == "" {
		return fmt.Errorf("not signed in — run enclypt login")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	var rsaKey string
	if m.NeedsKeyMaterial() {
		keyData, err := os.ReadFile(*keyPath)
		if err != nil {
			return fmt.Errorf("read key %s: %w", *keyPath, err)
		}
		rsaKey = string(keyData)
	}

	c := client.NewWithTimeout(cfg.APIURL, token, cfg.Timeout())

	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	sp.Suffix = " " + name + "ing " + filepath.Base(path) + "..."
	sp.Start()

	req := client.TransferRequest{
		Filename: filepath.Base(path),
		Data:     bytes.NewReader(data),
		Method:   m,
		RSAKey:   rsaKey,
	}
	var res *client.TransferResult
	if encrypt {
		res, err = c.Encrypt(context.Background(), req)
	} else {
		res, err = c.Decrypt(context.Background(), req)
	}
	sp.Stop()

	if err != nil {
		if errors.Is(err, client.ErrTimeout) {
			return fmt.Errorf("%s timed out — the server may be busy, try again", name)
		}
		return err
	}

	outPath := filepath.Join(filepath.Dir(path), res.Filename)
	if err := os.WriteFile(outPath, res.Data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	color.Green("wrote %s", outPath)
	return nil
}

func runDashboard(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "dump the raw file listing as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := authedClient(cfg)
	if err != nil {
		return err
	}

	if *asJSON {
		files, err := c.DashboardJSON(context.Background())
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(files, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal listing: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	data, err := c.Dashboard(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("%s  (%s tier)\n\n", data.Email, data.Tier.Display())
	if len(data.Files) == 0 {
		fmt.Println("no files processed yet")
		return nil
	}
	for _, f := range data.Files {
		fmt.Printf("  %-36s %10d  %-16s %s\n", f.Filename, f.Size, f.Method, f.Timestamp)
	}
	fmt.Printf("\n%d files\n", len(data.Files))
	return nil
}

func runKey(cfg config.Config) error {
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	key, err := c.LicenseKey(context.Background())
	if err != nil {
		return err
	}
	fmt.Println(key)
	return nil
}

// authedClient builds a client from the current session, failing fast when
// there is none.
func authedClient(cfg config.Config) (*client.Client, error) {
	mgr, err := newManager()
	if err != nil {
		return nil, err
	}
	defer mgr.Close()
	token := currentToken(mgr)
	if token == "" {
		return nil, fmt.Errorf("not signed in — run enclypt login")
	}
	return client.NewWithTimeout(cfg.APIURL, token, cfg.Timeout()), nil
}

func openLegal(cfg config.Config, page string) error {
	url := cfg.BaseURL + "/" + page
	if err := browser.Open(url); err != nil {
		fmt.Println(url)
	}
	return nil
}
