package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"toolforge/internal/definition"
	"toolforge/internal/tools"
)

// Loader turns the configuration file found under a project root into a
// tool registry.
type Loader struct {
	startDir          string
	configFile        string
	projectMarker     string
	buildOutputMarker string
	toolOptions       []tools.Option
	logger            zerolog.Logger
}

// LoaderConfig contains configuration for the loader.
type LoaderConfig struct {
	StartDir          string
	ConfigFile        string
	ProjectMarker     string
	BuildOutputMarker string
}

// NewLoader creates a loader. Empty config fields take the package defaults.
func NewLoader(config LoaderConfig, logger zerolog.Logger, opts ...tools.Option) *Loader {
	l := &Loader{
		startDir:          config.StartDir,
		configFile:        config.ConfigFile,
		projectMarker:     config.ProjectMarker,
		buildOutputMarker: config.BuildOutputMarker,
		logger:            logger.With().Str("component", "catalog_loader").Logger(),
	}
	if l.configFile == "" {
		l.configFile = DefaultConfigFile
	}
	if l.projectMarker == "" {
		l.projectMarker = DefaultProjectMarker
	}
	if l.buildOutputMarker == "" {
		l.buildOutputMarker = DefaultBuildOutputMarker
	}
	l.toolOptions = append([]tools.Option{tools.WithLogger(logger)}, opts...)
	return l
}

// Path returns the configuration file path under the resolved project root.
func (l *Loader) Path() string {
	root := ResolveRoot(l.startDir, l.projectMarker, l.buildOutputMarker)
	return filepath.Join(root, l.configFile)
}

// Load builds the registry. It never fails: a missing or unreadable file
// yields an empty registry.
func (l *Loader) Load() *tools.Registry {
	path := l.Path()
	l.logger.Info().
		Str("path", path).
		Msg("Looking for tool configuration")

	registry, err := l.LoadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn().
				Str("path", path).
				Str("error_code", tools.ErrConfigNotFound).
				Msg("Tool configuration not found, no tools loaded")
		} else {
			l.logger.Error().
				Err(err).
				Str("path", path).
				Msg("Failed to load tool configuration, no tools loaded")
		}
		return tools.NewRegistry()
	}

	l.logger.Info().
		Str("path", path).
		Int("tools", registry.Len()).
		Msg("Tool configuration loaded")
	return registry
}

// LoadFile reads and builds the registry from path.
func (l *Loader) LoadFile(path string) (*tools.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", tools.NewConfigNotFoundError(path), err)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return l.LoadText(string(data))
}

// LoadText parses text and builds the registry. A panic raised while
// parsing or building is converted to an error.
func (l *Loader) LoadText(text string) (registry *tools.Registry, err error) {
	defer func() {
		if r := recover(); r != nil {
			registry = nil
			err = fmt.Errorf("panic while building tools: %v", r)
		}
	}()

	defs := definition.Parse(text, l.logger)
	for _, def := range defs {
		if missing := def.Missing(); len(missing) > 0 {
			l.logger.Warn().
				Str("tool", def.ID).
				Strs("missing", missing).
				Msg("Tool definition is incomplete; invoking it will fail")
		}
	}
	return tools.BuildRegistry(defs, l.toolOptions...), nil
}
