package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	"wandermap/internal/client/api"
	"wandermap/internal/client/config"
	"wandermap/internal/client/repositories/session"
	"wandermap/internal/client/services"
	"wandermap/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the WanderMap services to an interactive terminal session.
type App struct {
	config   *config.Config
	client   api.Client
	auth     services.AuthService
	guard    *services.Guard
	trips    *services.Coordinator
	share    *services.ShareService
	log      logging.Logger
	reader   *bufio.Reader
	userName string
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	db, err := session.Open(ctx, cfg.SessionDBPath)
	if err != nil {
		return nil, err
	}
	store := session.NewSQLiteRepository(db)

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	apiClient := api.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout)

	return &App{
		config: cfg,
		client: apiClient,
		auth:   services.NewAuthService(apiClient, store),
		guard:  services.NewGuard(apiClient, store, log),
		trips:  services.NewCoordinator(apiClient, log),
		share:  services.NewShareService(apiClient, cfg.SiteBaseURL),
		log:    log,
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}
