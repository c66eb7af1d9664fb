package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/streamverse/streamverse/internal/adapter"
	"github.com/streamverse/streamverse/internal/adapter/source/supabase"
	"github.com/streamverse/streamverse/internal/adapter/source/tmdb"
	"github.com/streamverse/streamverse/internal/domain"
	"github.com/streamverse/streamverse/internal/service"
	"github.com/streamverse/streamverse/internal/store"
	"github.com/streamverse/streamverse/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

// catalogCacheTTL is how long rails and details stay fresh on disk
const catalogCacheTTL = 6 * time.Hour

func main() {
	// Handle version flag
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("streamverse %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting streamverse", "version", Version)

	// First run: collect catalog and backend settings
	if !cfg.IsConfigured() {
		if err := runSetupFlow(cfg); err != nil {
			return err
		}
	}

	// Sign in when no session is stored
	if !cfg.IsSignedIn() {
		if err := runSignInFlow(cfg, logger); err != nil {
			return err
		}
	}

	// Create the catalog client and the on-disk cache
	catalog := tmdb.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, cfg.Catalog.ImageBase, cfg.Catalog.ImageSize, logger)

	cache, err := store.NewCatalogStore(adapter.GetCachePath(), catalogCacheTTL)
	if err != nil {
		logger.Warn("disk cache unavailable, running memory-only", "error", err)
		cache, _ = store.NewCatalogStore("", catalogCacheTTL)
	}
	defer cache.Close()

	// Create the record store client with the stored session
	backend := supabase.NewClient(cfg.Backend.URL, cfg.Backend.AnonKey, cfg.Backend.AccessToken, logger)

	// Create launcher for the external embed surface
	launcher := adapter.NewEmbedLauncher(cfg.Playback.EmbedURL, cfg.Playback.OpenCommand, logger)

	// Create services
	sched := domain.NewTickScheduler()
	browseSvc := service.NewBrowseService(catalog, cache, cfg.UI.RailSize, logger)
	searchSvc := service.NewSearchService(catalog, logger)
	watchlistSvc := service.NewWatchlistService(backend, logger)
	continuationSvc := service.NewContinuationService(backend, logger)
	profileSvc := service.NewProfileService(backend, backend, continuationSvc, logger)

	// Sessions are built per playback, scoped to whichever identity the
	// viewer picked. The terminal has no fullscreen capability to drive.
	newSession := func(profile service.ProfileContext) *service.Session {
		tracker := service.NewTracker(continuationSvc, sched, cfg.Playback.TickInterval, cfg.Playback.TickStep, logger)
		return service.NewSession(catalog, continuationSvc, tracker, launcher, service.NoopFullscreen{}, sched, profile, logger)
	}

	// Create TUI model
	model := tui.NewModel(browseSvc, searchSvc, profileSvc, watchlistSvc, continuationSvc, newSession, cfg.Backend.AccountID)

	// Run the TUI
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow collects catalog and backend settings on first run
func runSetupFlow(cfg *adapter.Config) error {
	fmt.Println()
	fmt.Println("Welcome to StreamVerse!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	apiKey, err := promptLine(reader, "TMDB API key: ")
	if err != nil {
		return err
	}
	backendURL, err := promptLine(reader, "Backend project URL (e.g., https://xyz.supabase.co): ")
	if err != nil {
		return err
	}
	anonKey, err := promptLine(reader, "Backend anon key: ")
	if err != nil {
		return err
	}

	cfg.Catalog.APIKey = apiKey
	cfg.Backend.URL = strings.TrimRight(backendURL, "/")
	cfg.Backend.AnonKey = anonKey

	if err := adapter.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	return nil
}

// runSignInFlow prompts for credentials and stores the session
func runSignInFlow(cfg *adapter.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Sign In")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━")

	reader := bufio.NewReader(os.Stdin)

	email, err := promptLine(reader, "Email: ")
	if err != nil {
		return err
	}

	// Hidden input
	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	password := string(passwordBytes)
	fmt.Println()

	client := supabase.NewClient(cfg.Backend.URL, cfg.Backend.AnonKey, "", logger)
	identitySvc := service.NewIdentityService(client, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println()
	fmt.Println("Signing in...")

	sess, err := identitySvc.SignIn(ctx, email, password)
	if err != nil {
		// Offer to register instead
		fmt.Println()
		answer, perr := promptLine(reader, "Sign-in failed. Create a new account with these credentials? [y/N]: ")
		if perr != nil {
			return perr
		}
		if !strings.EqualFold(answer, "y") {
			return fmt.Errorf("sign-in failed: %w", err)
		}

		sess, err = identitySvc.SignUp(ctx, email, password)
		if err != nil {
			return fmt.Errorf("sign-up failed: %w", err)
		}
	}

	cfg.Backend.AccessToken = sess.AccessToken
	cfg.Backend.RefreshToken = sess.RefreshToken
	cfg.Backend.AccountID = sess.Account.ID
	cfg.Backend.Email = sess.Account.Email

	if err := adapter.SaveSession(sess.AccessToken, sess.RefreshToken, sess.Account.ID, sess.Account.Email); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Signed in!")
	return nil
}

func promptLine(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(input), nil
}
