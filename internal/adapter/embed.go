package adapter

import (
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// EmbedLauncher opens a title's third-party embed player. The embed is an
// external surface: once launched, its playback position is not observable
// from here, which is why progress is estimated rather than read (see
// service.Tracker).
type EmbedLauncher struct {
	urlTemplate string // %s is replaced with the movie id
	openCommand string // explicit opener; empty means platform default
	logger      *slog.Logger
}

// platformOpeners lists the opener commands tried in order per platform
var platformOpeners = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open", "sensible-browser", "x-www-browser"},
	"windows": {"rundll32"},
}

// NewEmbedLauncher creates a launcher for the configured embed provider
func NewEmbedLauncher(urlTemplate, openCommand string, logger *slog.Logger) *EmbedLauncher {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmbedLauncher{
		urlTemplate: urlTemplate,
		openCommand: openCommand,
		logger:      logger,
	}
}

// EmbedURL builds the embed player URL for a movie id
func (l *EmbedLauncher) EmbedURL(movieID string) (string, error) {
	if !strings.Contains(l.urlTemplate, "%s") {
		return "", fmt.Errorf("embed url template has no id placeholder: %q", l.urlTemplate)
	}
	raw := fmt.Sprintf(l.urlTemplate, url.QueryEscape(movieID))
	if _, err := url.Parse(raw); err != nil {
		return "", fmt.Errorf("invalid embed url: %w", err)
	}
	return raw, nil
}

// Launch opens the embed URL for a movie in the external surface
func (l *EmbedLauncher) Launch(movieID string) error {
	embedURL, err := l.EmbedURL(movieID)
	if err != nil {
		return err
	}

	name, args := l.openerFor(embedURL)
	if name == "" {
		return fmt.Errorf("no opener available for platform %s", runtime.GOOS)
	}

	l.logger.Info("launching embed", "movieID", movieID, "opener", name)

	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		l.logger.Error("failed to launch embed", "error", err, "opener", name)
		return fmt.Errorf("failed to open embed player: %w", err)
	}

	// Detach: the opener hands off to the browser and exits on its own
	go func() {
		if err := cmd.Wait(); err != nil {
			l.logger.Warn("opener exited with error", "error", err)
		}
	}()

	return nil
}

// openerFor resolves the opener command and arguments for a URL
func (l *EmbedLauncher) openerFor(embedURL string) (string, []string) {
	if l.openCommand != "" {
		return l.openCommand, []string{embedURL}
	}

	candidates := platformOpeners[runtime.GOOS]
	for _, c := range candidates {
		if _, err := exec.LookPath(c); err != nil {
			continue
		}
		if c == "rundll32" {
			return c, []string{"url.dll,FileProtocolHandler", embedURL}
		}
		return c, []string{embedURL}
	}
	return "", nil
}
