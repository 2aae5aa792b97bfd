package logging

import (
	"regexp"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Registry tracks named loggers so their levels can be driven by LoggerPatternConfig entries.
type Registry struct {
	mu        sync.RWMutex
	loggers   map[string]Logger
	logConfig []LoggerPatternConfig
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		loggers: make(map[string]Logger),
	}
}

// Register records the logger under its name and applies any matching pattern already
// configured. If a logger is already registered under that name, that logger is returned
// instead and the input is discarded.
func (lr *Registry) Register(logger Logger) Logger {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	name := logger.Name()
	if existingLogger, ok := lr.loggers[name]; ok {
		return existingLogger
	}

	lr.loggers[name] = logger
	if level, ok := matchLevel(lr.logConfig, name); ok {
		logger.SetLevel(level)
	}
	return logger
}

// LoggerNamed returns the registered logger with the given name.
func (lr *Registry) LoggerNamed(name string) (logger Logger, ok bool) {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	logger, ok = lr.loggers[name]
	return
}

// Names returns the registered logger names in sorted order.
func (lr *Registry) Names() []string {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	registeredNames := make([]string, 0, len(lr.loggers))
	for name := range lr.loggers {
		registeredNames = append(registeredNames, name)
	}
	sort.Strings(registeredNames)
	return registeredNames
}

// UpdateConfig replaces the pattern configuration and re-levels every registered logger. Later
// patterns win over earlier ones; loggers no pattern matches are reset to INFO. Invalid patterns
// are reported on `errorLogger` and skipped.
func (lr *Registry) UpdateConfig(logConfig []LoggerPatternConfig, errorLogger Logger) error {
	valid := make([]LoggerPatternConfig, 0, len(logConfig))
	for _, lpc := range logConfig {
		if !validatePattern(lpc.Pattern) {
			errorLogger.Warnw("failed to validate a pattern", "pattern", lpc.Pattern)
			continue
		}
		if _, err := LevelFromString(lpc.Level); err != nil {
			return err
		}
		valid = append(valid, lpc)
	}

	lr.mu.Lock()
	defer lr.mu.Unlock()
	lr.logConfig = valid

	for name, logger := range lr.loggers {
		level, ok := matchLevel(valid, name)
		if !ok {
			level = INFO
		}
		logger.SetLevel(level)
	}

	return nil
}

// matchLevel returns the level of the last pattern that matches `name`.
func matchLevel(logConfig []LoggerPatternConfig, name string) (Level, bool) {
	var (
		matched Level
		found   bool
	)
	for _, lpc := range logConfig {
		r, err := regexp.Compile(buildRegexFromPattern(lpc.Pattern))
		if err != nil {
			continue
		}
		if !r.MatchString(name) {
			continue
		}
		level, err := LevelFromString(lpc.Level)
		if err != nil {
			continue
		}
		matched, found = level, true
	}
	return matched, found
}

// errUnknownLogger is returned when a level is set on a name nothing registered.
var errUnknownLogger = errors.New("logger not registered")

// SetLevel sets the level of the registered logger with the given name.
func (lr *Registry) SetLevel(name string, level Level) error {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	logger, ok := lr.loggers[name]
	if !ok {
		return errors.Wrapf(errUnknownLogger, "%q", name)
	}
	logger.SetLevel(level)
	return nil
}
