package config

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/rtmltoolkit/rtml/logging"
)

// Read reads a config from the given file.
func Read(filePath string, logger logging.Logger) (*Config, error) {
	//nolint:gosec
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config file %q", filePath)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warnw("failed to close config file", "path", filePath, "error", err)
		}
	}()

	return FromReader(filePath, f, logger)
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from.
func FromReader(originalPath string, r io.Reader, logger logging.Logger) (*Config, error) {
	cfg := Config{
		ConfigFilePath: originalPath,
	}
	decoder := json.NewDecoder(r)
	// Keep numbers as json.Number so that a fractional size is rejected instead of truncated.
	decoder.UseNumber()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to decode Config from json")
	}
	if err := cfg.Ensure(); err != nil {
		return nil, errors.Wrapf(err, "failed to process Config")
	}
	logger.Debugw("config read", "path", originalPath, "recognizers", len(cfg.Recognizers))
	return &cfg, nil
}
