package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kadavr95/spoiler"
	"github.com/kadavr95/spoiler/internal/config"
	"github.com/kadavr95/spoiler/internal/logging"
	"github.com/kadavr95/spoiler/pkg/editor"
	"github.com/kadavr95/spoiler/pkg/observability"
)

// App carries what every command needs: configuration, logger and metrics.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Metrics  *observability.Metrics
}

// NewApp builds the application from cfg. Debug forces the debug level.
func NewApp(cfg config.Config, debug bool) (*App, error) {
	logger, err := createLogger(os.Stderr, cfg.Log, debug)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, Logger: logger}
	if cfg.Metrics.Enabled {
		app.Registry = prometheus.NewRegistry()
		if app.Metrics, err = observability.NewMetrics(app.Registry); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return app, nil
}

// NewEditor creates an editor with the configured plugins and widget label.
func (a *App) NewEditor() (*editor.Editor, error) {
	var opts []spoiler.Option
	if a.Config.Editor.Label != "" {
		opts = append(opts, spoiler.WithLabel(a.Config.Editor.Label))
	}
	plugins, err := spoiler.Plugins(a.Config.Editor.Plugins, opts...)
	if err != nil {
		return nil, err
	}
	return editor.New(
		editor.WithPlugins(plugins...),
		editor.WithLogger(a.Logger),
		editor.WithMetrics(a.Metrics),
	)
}

// createLogger configures the application logger.
// Without debug it honours the configured level and format.
func createLogger(w io.Writer, cfg config.Log, debug bool) (*slog.Logger, error) {
	if debug {
		cfg.Level = "debug"
	}
	return logging.NewFromConfig(w, cfg.Format, cfg.Level)
}

// ReadInput reads the file at path, or stdin when path is empty or "-".
func ReadInput(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}
