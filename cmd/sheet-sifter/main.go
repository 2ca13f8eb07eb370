package main

import (
	"fmt"
	"os"
	"runtime"

	"sheet-sifter/internal/config"
	"sheet-sifter/internal/controllers"
	"sheet-sifter/internal/logger"
	"sheet-sifter/internal/models"
	"sheet-sifter/internal/services"
	"sheet-sifter/internal/shutdown"
	"sheet-sifter/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	AppName    = "Excel Data Search Tool"
	AppID      = "com.sheetsifter.app"
	AppVersion = "1.0.0"
)

// Application owns the window, the controller and its session.
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger
	config  *config.Config

	controller *controllers.MainController
	view       *views.MainView
	shutdown   *shutdown.Manager
}

func main() {
	cfg, err := config.Load(nil, os.Getenv(config.EnvPrefix+"_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(2)
	}

	application := NewApplication(cfg)
	application.Run()
}

// NewApplication wires models, services, controller and view.
func NewApplication(cfg *config.Config) *Application {
	appLogger := logger.New(cfg.LogFormat, logger.ParseLevel(cfg.EffectiveLogLevel()))

	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})
	fyneApp := app.NewWithID(AppID)

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(800, 600))
	window.CenterOnScreen()

	appLogger.Info("Application", "application starting", map[string]interface{}{
		"version":      AppVersion,
		"go_version":   runtime.Version(),
		"log_level":    cfg.EffectiveLogLevel(),
		"preview_rows": cfg.PreviewRows,
		"filter_style": cfg.FilterStyle,
		"config_file":  cfg.ConfigFile,
	})

	session := models.NewSession(cfg.RegistryOptions())
	controller := controllers.NewMainController(
		session,
		services.NewWorkbookService(appLogger, cfg.ExportSheet),
		services.NewFilterService(appLogger),
		appLogger,
		cfg.PreviewRows,
	)
	view := views.NewMainView(window, cfg.PreviewRows)
	controller.SetMainView(view)

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		logger:     appLogger,
		config:     cfg,
		controller: controller,
		view:       view,
		shutdown:   shutdown.NewManager(appLogger),
	}

	application.shutdown.Register(shutdown.Func(func() {
		fyne.Do(fyneApp.Quit)
	}))
	application.shutdown.Register(controller)
	application.setupWindowEvents()

	return application
}

// Run shows the window and blocks until the application quits.
func (a *Application) Run() {
	a.shutdown.Listen()
	a.view.Show()
	a.fyneApp.Run()
	a.logger.Info("Application", "application terminated", nil)
}

// setupWindowEvents confirms before discarding a loaded dataset. Shutdown runs
// off the UI thread because the quit step is itself scheduled onto it.
func (a *Application) setupWindowEvents() {
	a.window.SetCloseIntercept(func() {
		if a.controller.Session().State() == models.StateEmpty {
			go a.shutdown.Shutdown()
			return
		}
		a.view.ShowConfirm("Exit", "Are you sure you want to exit?", func(confirmed bool) {
			if confirmed {
				go a.shutdown.Shutdown()
			}
		})
	})
}
