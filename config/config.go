// Package config defines the structures to configure a set of named recognizers and their logging.
package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"

	"github.com/rtmltoolkit/rtml/logging"
	"github.com/rtmltoolkit/rtml/ml"
)

// A Config describes the recognizers a process hosts.
type Config struct {
	// ConfigFilePath is the file the config was read from, if any.
	ConfigFilePath string `json:"-"`

	Debug       bool                          `json:"debug,omitempty"`
	LogConfig   []logging.LoggerPatternConfig `json:"log,omitempty"`
	Recognizers []Recognizer                  `json:"recognizers"`
}

// AttributeMap is a convenience wrapper for pulling out typed information from a map.
type AttributeMap map[string]interface{}

// A Recognizer describes one named recognizer. Its attributes are decoded into
// RecognizerAttributes by Validate.
type Recognizer struct {
	Name       string       `json:"name"`
	Attributes AttributeMap `json:"attributes,omitempty"`

	ConvertedAttributes *RecognizerAttributes `json:"-"`
}

// RecognizerAttributes are the typed attributes of a Recognizer.
type RecognizerAttributes struct {
	InputSize     int    `json:"input_size"`
	OutputSize    int    `json:"output_size"`
	Metric        string `json:"metric,omitempty"`
	StrictLengths bool   `json:"strict_lengths,omitempty"`
}

// Validate ensures all parts of the attributes are valid.
func (attrs *RecognizerAttributes) Validate(path string) error {
	if attrs.InputSize < 0 {
		return newFieldError(path, "input_size", "must be >= 0")
	}
	if attrs.OutputSize < 0 {
		return newFieldError(path, "output_size", "must be >= 0")
	}
	if _, err := ml.ParseMetric(attrs.Metric); err != nil {
		return errors.Wrapf(err, "%s", fieldPath(path, "metric"))
	}
	return nil
}

// Options returns the recognizer options the attributes describe.
func (attrs *RecognizerAttributes) Options() ([]ml.Option, error) {
	metric, err := ml.ParseMetric(attrs.Metric)
	if err != nil {
		return nil, err
	}
	return []ml.Option{ml.WithMetric(metric), ml.WithStrictLengths(attrs.StrictLengths)}, nil
}

// Validate ensures all parts of the config are valid and decodes the attributes.
func (conf *Recognizer) Validate(path string) error {
	if conf.Name == "" {
		return newFieldRequiredError(path, "name")
	}
	attrs, err := decodeAttributes(conf.Attributes)
	if err != nil {
		return errors.Wrapf(err, "%s", fieldPath(path, "attributes"))
	}
	if err := attrs.Validate(fieldPath(path, "attributes")); err != nil {
		return err
	}
	conf.ConvertedAttributes = attrs
	return nil
}

// Build constructs the recognizer. The recognizer logs through a sublogger of `logger` named
// after it, which is added to `registry` when one is given.
func (conf *Recognizer) Build(logger logging.Logger, registry *logging.Registry) (*ml.TemplateRecognizer, error) {
	sublogger := logger.Sublogger(conf.Name)
	if registry != nil {
		sublogger = registry.Register(sublogger)
	}
	return conf.newRecognizer(sublogger)
}

func (conf *Recognizer) newRecognizer(logger logging.Logger) (*ml.TemplateRecognizer, error) {
	if conf.ConvertedAttributes == nil {
		if err := conf.Validate(""); err != nil {
			return nil, err
		}
	}
	attrs := conf.ConvertedAttributes
	opts, err := attrs.Options()
	if err != nil {
		return nil, err
	}
	return ml.NewTemplateRecognizer(attrs.InputSize, attrs.OutputSize, logger, opts...), nil
}

// Ensure ensures all parts of the config are valid.
func (c *Config) Ensure() error {
	for idx, lpc := range c.LogConfig {
		if err := lpc.Validate(fmt.Sprintf("%s.%d", "log", idx)); err != nil {
			return err
		}
	}

	seen := make(map[string]struct{}, len(c.Recognizers))
	for idx := range c.Recognizers {
		conf := &c.Recognizers[idx]
		if err := conf.Validate(fmt.Sprintf("%s.%d", "recognizers", idx)); err != nil {
			return err
		}
		if _, ok := seen[conf.Name]; ok {
			return errors.Errorf("recognizer name %q is not unique", conf.Name)
		}
		seen[conf.Name] = struct{}{}
	}
	return nil
}

// FindRecognizer returns the recognizer config with the given name.
func (c *Config) FindRecognizer(name string) (*Recognizer, bool) {
	for idx := range c.Recognizers {
		if c.Recognizers[idx].Name == name {
			return &c.Recognizers[idx], true
		}
	}
	return nil, false
}

// BuildAll constructs every configured recognizer. Each recognizer's logger is registered with
// `registry`, which then applies the configured log patterns.
func (c *Config) BuildAll(logger logging.Logger, registry *logging.Registry) (map[string]*ml.TemplateRecognizer, error) {
	recognizers := make(map[string]*ml.TemplateRecognizer, len(c.Recognizers))
	for idx := range c.Recognizers {
		conf := &c.Recognizers[idx]
		recognizer, err := conf.Build(logger, registry)
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%d", "recognizers", idx)
		}
		recognizers[conf.Name] = recognizer
	}
	if err := registry.UpdateConfig(c.LogConfig, logger); err != nil {
		return nil, err
	}
	return recognizers, nil
}

func decodeAttributes(attributes AttributeMap) (*RecognizerAttributes, error) {
	var attrs RecognizerAttributes
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      &attrs,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(map[string]interface{}(attributes)); err != nil {
		return nil, err
	}
	return &attrs, nil
}

func fieldPath(path, field string) string {
	if path == "" {
		return field
	}
	return fmt.Sprintf("%s.%s", path, field)
}

func newFieldRequiredError(path, field string) error {
	return errors.Errorf("%s: %q is required", path, field)
}

func newFieldError(path, field, msg string) error {
	return errors.Errorf("%s: %q %s", path, field, msg)
}
