package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"dementiaui/internal/config"
	"dementiaui/internal/logger"
	"dementiaui/internal/repository"
	"dementiaui/internal/repository/sqlite"
	"dementiaui/internal/route"
	"dementiaui/internal/service"
	"dementiaui/internal/service/backend"
	"dementiaui/internal/service/notify"
	"dementiaui/internal/service/websocket"
)

type App struct {
	config    *config.Config
	logger    *logger.Logger
	db        *sqlite.DB
	history   repository.SubmissionRepository
	hub       *websocket.HubService
	mqtt      *notify.MQTTPublisher
	predictor *service.Predictor
}

func NewApp() (*App, error) {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		config: cfg,
		logger: log,
		hub:    websocket.NewHubService(log),
	}
	notifiers := []service.Notifier{a.hub}

	if cfg.HistoryDBPath != "" {
		db, err := sqlite.New(cfg.HistoryDBPath)
		if err != nil {
			log.Close()
			return nil, err
		}
		a.db = db
		a.history = sqlite.NewSubmissionRepository(db)
	}

	if cfg.MQTTBroker != "" {
		publisher, err := notify.NewMQTTPublisher(cfg, log)
		if err != nil {
			// notifications are optional; the UI works without a broker
			log.Error("MQTT notifications disabled: %v", err)
		} else {
			a.mqtt = publisher
			notifiers = append(notifiers, publisher)
		}
	}

	a.predictor = service.NewPredictor(backend.NewClient(cfg, log), a.history, log, notifiers...)
	a.predictor.ShareDetails(cfg.Password != "")
	return a, nil
}

// Run serves HTTP until SIGINT/SIGTERM.
func (a *App) Run() error {
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go a.hub.Run(ctx)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.config.Port),
		Handler: route.SetupRoutes(a.predictor, a.hub, a.history, a.config, a.logger),
	}

	fmt.Printf("🧠 MRI Dementia Classifier\n")
	fmt.Printf("📍 URL: http://localhost:%d\n", a.config.Port)
	fmt.Printf("🔗 Backend: %s\n", a.config.BackendURL)
	if a.history != nil {
		fmt.Printf("🗄️  History: %s\n", a.config.HistoryDBPath)
	}
	if a.mqtt != nil {
		fmt.Printf("📡 MQTT: %s (%s)\n", a.config.MQTTBroker, a.config.MQTTTopic)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func (a *App) close() {
	if a.mqtt != nil {
		a.mqtt.Close()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("Error closing history database: %v", err)
		}
	}
	a.logger.Close()
}
