package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest/observer"
	"go.viam.com/test"

	"github.com/rtmltoolkit/rtml/logging"
	"github.com/rtmltoolkit/rtml/ml"
)

const sampleConfig = `{
	"debug": true,
	"log": [{"pattern": "rtml.pose", "level": "warn"}],
	"recognizers": [
		{"name": "gesture", "attributes": {"input_size": 3, "output_size": 1}},
		{"name": "pose", "attributes": {"input_size": 2, "output_size": 2, "metric": "manhattan", "strict_lengths": true}}
	]
}`

func TestFromReader(t *testing.T) {
	logger := logging.NewTestLogger(t)
	cfg, err := FromReader("sample.json", strings.NewReader(sampleConfig), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.ConfigFilePath, test.ShouldEqual, "sample.json")
	test.That(t, cfg.Debug, test.ShouldBeTrue)
	test.That(t, cfg.LogConfig, test.ShouldResemble, []logging.LoggerPatternConfig{{Pattern: "rtml.pose", Level: "warn"}})
	test.That(t, cfg.Recognizers, test.ShouldHaveLength, 2)

	gesture, ok := cfg.FindRecognizer("gesture")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, gesture.ConvertedAttributes, test.ShouldResemble, &RecognizerAttributes{InputSize: 3, OutputSize: 1})

	pose, ok := cfg.FindRecognizer("pose")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pose.ConvertedAttributes, test.ShouldResemble,
		&RecognizerAttributes{InputSize: 2, OutputSize: 2, Metric: "manhattan", StrictLengths: true})

	_, ok = cfg.FindRecognizer("missing")
	test.That(t, ok, test.ShouldBeFalse)
}

func TestRead(t *testing.T) {
	logger := logging.NewTestLogger(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "rtml.json")
	test.That(t, os.WriteFile(path, []byte(sampleConfig), 0o600), test.ShouldBeNil)

	cfg, err := Read(path, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.ConfigFilePath, test.ShouldEqual, path)

	_, err = Read(filepath.Join(dir, "missing.json"), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cannot read config file")
}

func TestFromReaderInvalid(t *testing.T) {
	logger := logging.NewTestLogger(t)
	for _, tc := range []struct {
		name   string
		config string
		errStr string
	}{
		{"not json", `{`, "failed to decode Config from json"},
		{"missing name", `{"recognizers": [{"attributes": {"input_size": 1}}]}`, `recognizers.0: "name" is required`},
		{"negative input", `{"recognizers": [{"name": "a", "attributes": {"input_size": -1}}]}`, `recognizers.0.attributes: "input_size" must be >= 0`},
		{"negative output", `{"recognizers": [{"name": "a", "attributes": {"output_size": -2}}]}`, `"output_size" must be >= 0`},
		{"fractional size", `{"recognizers": [{"name": "a", "attributes": {"input_size": 1.5}}]}`, "recognizers.0.attributes"},
		{"unknown attribute", `{"recognizers": [{"name": "a", "attributes": {"window": 3}}]}`, "window"},
		{"bad metric", `{"recognizers": [{"name": "a", "attributes": {"metric": "cosine"}}]}`, `recognizers.0.attributes.metric: unknown distance metric "cosine"`},
		{"duplicate name", `{"recognizers": [{"name": "a"}, {"name": "a"}]}`, `recognizer name "a" is not unique`},
		{"bad log pattern", `{"log": [{"pattern": "a..b", "level": "info"}]}`, "log.0.pattern"},
		{"bad log level", `{"log": [{"pattern": "a", "level": "loud"}]}`, "log.0.level"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromReader("", strings.NewReader(tc.config), logger)
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.errStr)
		})
	}
}

func TestRecognizerBuild(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	conf := &Recognizer{Name: "gesture", Attributes: AttributeMap{"input_size": 2, "output_size": 3, "metric": "chebyshev"}}

	tr, err := conf.Build(logger, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tr.InputSize(), test.ShouldEqual, 2)
	test.That(t, tr.OutputSize(), test.ShouldEqual, 3)
	test.That(t, tr.Metric(), test.ShouldEqual, ml.Chebyshev)

	tr.Predict([]float64{1, 2})
	warnings := logs.FilterMessage("no templates available").All()
	test.That(t, warnings, test.ShouldHaveLength, 1)
	test.That(t, warnings[0].LoggerName, test.ShouldEqual, "gesture")

	_, err = (&Recognizer{Name: "bad", Attributes: AttributeMap{"input_size": "three"}}).Build(logger, nil)
	test.That(t, err, test.ShouldNotBeNil)

	registry := logging.NewRegistry()
	_, err = conf.Build(logger.Sublogger("rtml"), registry)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, registry.Names(), test.ShouldResemble, []string{"rtml.gesture"})
}

func loggerNamed(name string) func(observer.LoggedEntry) bool {
	return func(entry observer.LoggedEntry) bool {
		return entry.LoggerName == name
	}
}

func TestBuildAll(t *testing.T) {
	root, logs := logging.NewObservedTestLogger(t)
	root = root.Sublogger("rtml")
	cfg, err := FromReader("", strings.NewReader(sampleConfig), root)
	test.That(t, err, test.ShouldBeNil)

	registry := logging.NewRegistry()
	recognizers, err := cfg.BuildAll(root, registry)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, recognizers, test.ShouldHaveLength, 2)
	test.That(t, registry.Names(), test.ShouldResemble, []string{"rtml.gesture", "rtml.pose"})

	poseLogger, ok := registry.LoggerNamed("rtml.pose")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, poseLogger.GetLevel(), test.ShouldEqual, logging.WARN)
	gestureLogger, ok := registry.LoggerNamed("rtml.gesture")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, gestureLogger.GetLevel(), test.ShouldEqual, logging.INFO)

	pose := recognizers["pose"]
	test.That(t, pose.StrictLengths(), test.ShouldBeTrue)
	test.That(t, pose.Metric(), test.ShouldEqual, ml.Manhattan)

	// The WARN level on "rtml.pose" drops the info line but keeps warnings.
	pose.Train([][]float64{{0, 0}}, [][]float64{{1, 1}})
	pose.Train([][]float64{{0, 0}}, nil)
	test.That(t, logs.Filter(loggerNamed("rtml.pose")).Len(), test.ShouldEqual, 1)

	gesture := recognizers["gesture"]
	gesture.Train([][]float64{{0, 0, 0}}, [][]float64{{1}})
	test.That(t, logs.FilterMessage("stored 1 templates").Filter(loggerNamed("rtml.gesture")).Len(), test.ShouldEqual, 1)
}

func TestSchemaJSON(t *testing.T) {
	out, err := SchemaJSON()
	test.That(t, err, test.ShouldBeNil)
	rendered := string(out)
	for _, field := range []string{"recognizers", "input_size", "output_size", "strict_lengths", "pattern"} {
		test.That(t, rendered, test.ShouldContainSubstring, `"`+field+`"`)
	}
	test.That(t, rendered, test.ShouldNotContainSubstring, "ConfigFilePath")
	test.That(t, rendered, test.ShouldNotContainSubstring, "ConvertedAttributes")
}
