package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"
)

var landingLines = [...]string{
	"Your files are readable by anyone holding them. Fixable.",
	"Fernet, AES-256, RSA-OAEP. Pick a lock for your data.",
	"The vault is open. You're standing outside it.",
	"An unencrypted file is a postcard. Seal the envelope.",
	"Three ciphers, one command, zero excuses.",
	"Somebody's disk gets imaged every day. Encrypt before it's yours.",
	"Guest tier is free. Regret is not.",
	"The key never leaves the server. Neither do your secrets, once sealed.",
	"Plaintext ages badly.",
	"Lock it now, thank yourself at the breach postmortem.",
}

func printLanding() {
	msg := landingLines[rand.IntN(len(landingLines))]

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#38bdf8")).
		Bold(true).
		Render("ENCLYPT")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(msg)

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render("To sign in: enclypt login\nNew here:   enclypt register")

	fmt.Printf("\n%s\n\n%s\n\n%s\n\n", title, quote, hint)
}

func printHelp() {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#38bdf8")).
		Bold(true).
		Render("E N C L Y P T")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("File encryption as a service — terminal client")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"enclypt", "Open the dashboard (interactive TUI)"},
		{"enclypt login", "Sign in with email and password"},
		{"enclypt register", "Create an account"},
		{"enclypt logout", "Clear your session"},
		{"enclypt encrypt <file>", "Encrypt a file (-method fernet|aes256|rsa)"},
		{"enclypt decrypt <file>", "Decrypt a file (-method fernet|aes256|rsa)"},
		{"enclypt dashboard", "Show account and processed files (-json for raw)"},
		{"enclypt key", "Print your license key"},
		{"enclypt unlocker", "Download the offline unlocker (paid tier)"},
		{"enclypt terms", "Terms of Service"},
		{"enclypt privacy", "Privacy Policy"},
		{"enclypt faq", "Frequently Asked Questions"},
		{"enclypt --version", "Show version"},
		{"enclypt help", "You are here"},
	}

	fmt.Printf("\n  %s\n\n  %s\n\n", title, tagline)
	for _, c := range commands {
		fmt.Printf("    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-24s", c.cmd)), descStyle.Render(c.desc))
	}
	url := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("https://enclypt.io")
	fmt.Printf("\n  %s\n\n", url)
}
