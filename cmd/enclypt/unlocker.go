package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/enclypt/enclypt/internal/config"
)

// unlockerName is the offline unlocker asset published on the website for
// paid accounts.
const unlockerName = "EnclyptUnlocker.exe"

func runUnlocker(cfg config.Config) error {
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}

	// Tier gating is enforced server-side; checking here just gives a
	// clearer message than a 403 on the download.
	data, err := c.Dashboard(context.Background())
	if err != nil {
		return err
	}
	if !data.Tier.HasOfflineUnlocker() {
		return fmt.Errorf("the offline unlocker is a paid-tier feature (your tier: %s)", data.Tier.Display())
	}

	httpClient := &http.Client{Timeout: 2 * time.Minute}
	baseURL := cfg.BaseURL + "/offline-unlocker/"
	dest := unlockerName

	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	sp.Suffix = " downloading " + unlockerName + "..."
	sp.Start()
	err = downloadFile(httpClient, baseURL+unlockerName, dest)
	sp.Stop()
	if err != nil {
		return fmt.Errorf("download unlocker: %w", err)
	}

	// Checksum verification is best-effort: older releases shipped without
	// a checksums file.
	tmpDir, err := os.MkdirTemp("", "enclypt-unlocker-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck

	checksumsPath := filepath.Join(tmpDir, "checksums.txt")
	if err := downloadFile(httpClient, baseURL+"checksums.txt", checksumsPath); err != nil {
		color.Yellow("warning: no checksums published — skipping verification")
	} else if err := verifyChecksum(dest, checksumsPath, unlockerName); err != nil {
		os.Remove(dest) //nolint:errcheck // don't leave a bad binary behind
		return err
	}

	color.Green("wrote %s", dest)
	return nil
}

func downloadFile(client *http.Client, url, dest string) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %s from %s", resp.Status, url)
	}
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()                   //nolint:errcheck
	const maxDownloadSize = 100 << 20 // 100 MB
	_, err = io.Copy(f, io.LimitReader(resp.Body, maxDownloadSize))
	return err
}

func verifyChecksum(filePath, checksumsPath, fileName string) error {
	data, err := os.ReadFile(checksumsPath)
	if err != nil {
		return fmt.Errorf("read checksums: %w", err)
	}
	var expected string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.Contains(line, fileName) {
			parts := strings.Fields(line)
			if len(parts) >= 1 {
				expected = parts[0]
				break
			}
		}
	}
	if expected == "" {
		return fmt.Errorf("no checksum found for %s", fileName)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close() //nolint:errcheck

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("hash file: %w", err)
	}
	actual := hex.EncodeToString(h.Sum(nil))
	if actual != expected {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expected, actual)
	}
	return nil
}
