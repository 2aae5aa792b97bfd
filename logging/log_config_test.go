package logging

import (
	"strings"
	"testing"

	"go.viam.com/test"
)

func verifySetLevels(registry *Registry, expectedMatches map[string]string) bool {
	for name, level := range expectedMatches {
		logger, ok := registry.LoggerNamed(name)
		if !ok || !strings.EqualFold(level, logger.GetLevel().String()) {
			return false
		}
	}
	return true
}

func createTestRegistry(loggerNames []string) *Registry {
	registry := NewRegistry()
	for _, name := range loggerNames {
		registry.Register(NewBlankLogger(name))
	}
	return registry
}

func TestValidatePattern(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		pattern string
		isValid bool
	}{
		{"rtml.gesture", true},
		{"rtml.gesture.*", true},
		{"rtml.*.trainer", true},
		{"rtml.*.*", true},
		{"*.gesture", true},
		{"*", true},
		{"hand-pose_v2", true},

		{"rtml..gesture", false},
		{"rtml.gesture.", false},
		{".rtml.gesture", false},
		{"rtml.gesture.**", false},
		{"_.rtml", false},
		{"rtml.-", false},
		{"rtml gesture", false},
	} {
		tc := tc
		t.Run(tc.pattern, func(t *testing.T) {
			t.Parallel()
			test.That(t, validatePattern(tc.pattern), test.ShouldEqual, tc.isValid)
		})
	}
}

func TestLoggerPatternConfigValidate(t *testing.T) {
	test.That(t, LoggerPatternConfig{Pattern: "rtml.*", Level: "debug"}.Validate("log.0"), test.ShouldBeNil)

	err := LoggerPatternConfig{Pattern: "rtml..x", Level: "debug"}.Validate("log.0")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "log.0.pattern")

	err = LoggerPatternConfig{Pattern: "rtml", Level: "loud"}.Validate("")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "level")
}

func TestUpdateLoggerRegistry(t *testing.T) {
	for _, tc := range []struct {
		name            string
		loggerConfig    []LoggerPatternConfig
		loggerNames     []string
		expectedMatches map[string]string
	}{
		{
			name:         "exact",
			loggerConfig: []LoggerPatternConfig{{Pattern: "rtml.gesture", Level: "WARN"}},
			loggerNames:  []string{"rtml.gesture", "rtml.gesture.trainer", "rtml.pose"},
			expectedMatches: map[string]string{
				"rtml.gesture":         "WARN",
				"rtml.gesture.trainer": "INFO",
				"rtml.pose":            "INFO",
			},
		},
		{
			name:         "trailing wildcard",
			loggerConfig: []LoggerPatternConfig{{Pattern: "rtml.*", Level: "DEBUG"}},
			loggerNames:  []string{"rtml.gesture", "rtml.pose.trainer", "other"},
			expectedMatches: map[string]string{
				"rtml.gesture":      "DEBUG",
				"rtml.pose.trainer": "DEBUG",
				"other":             "INFO",
			},
		},
		{
			name:         "inner wildcard",
			loggerConfig: []LoggerPatternConfig{{Pattern: "rtml.*.trainer", Level: "ERROR"}},
			loggerNames:  []string{"rtml.gesture.trainer", "rtml.pose.trainer", "rtml.pose.predict"},
			expectedMatches: map[string]string{
				"rtml.gesture.trainer": "ERROR",
				"rtml.pose.trainer":    "ERROR",
				"rtml.pose.predict":    "INFO",
			},
		},
		{
			name: "later pattern wins",
			loggerConfig: []LoggerPatternConfig{
				{Pattern: "rtml.*", Level: "DEBUG"},
				{Pattern: "rtml.gesture", Level: "WARN"},
			},
			loggerNames:     []string{"rtml.gesture"},
			expectedMatches: map[string]string{"rtml.gesture": "WARN"},
		},
		{
			name: "invalid pattern skipped",
			loggerConfig: []LoggerPatternConfig{
				{Pattern: "rtml..gesture", Level: "ERROR"},
				{Pattern: "rtml.gesture", Level: "WARN"},
			},
			loggerNames:     []string{"rtml.gesture"},
			expectedMatches: map[string]string{"rtml.gesture": "WARN"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			logger, logs := NewObservedTestLogger(t)
			registry := createTestRegistry(tc.loggerNames)

			err := registry.UpdateConfig(tc.loggerConfig, logger)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, verifySetLevels(registry, tc.expectedMatches), test.ShouldBeTrue)
			if tc.name == "invalid pattern skipped" {
				test.That(t, logs.FilterMessage("failed to validate a pattern").Len(), test.ShouldEqual, 1)
			}
		})
	}
}

func TestUpdateConfigUnknownLevel(t *testing.T) {
	registry := createTestRegistry([]string{"rtml.gesture"})
	err := registry.UpdateConfig([]LoggerPatternConfig{{Pattern: "rtml.*", Level: "loud"}}, NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)

	logger, ok := registry.LoggerNamed("rtml.gesture")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, logger.GetLevel(), test.ShouldEqual, DEBUG)
}

func TestRegistryRegister(t *testing.T) {
	registry := NewRegistry()
	test.That(t, registry.UpdateConfig([]LoggerPatternConfig{{Pattern: "rtml.*", Level: "error"}}, NewTestLogger(t)),
		test.ShouldBeNil)

	// Registering after the config was set applies the matching pattern.
	first := registry.Register(NewBlankLogger("rtml.gesture"))
	test.That(t, first.GetLevel(), test.ShouldEqual, ERROR)

	// The first registration wins.
	second := registry.Register(NewBlankLogger("rtml.gesture"))
	test.That(t, second, test.ShouldEqual, first)
	test.That(t, registry.Names(), test.ShouldResemble, []string{"rtml.gesture"})

	test.That(t, registry.SetLevel("rtml.gesture", WARN), test.ShouldBeNil)
	test.That(t, first.GetLevel(), test.ShouldEqual, WARN)
	test.That(t, registry.SetLevel("missing", WARN), test.ShouldNotBeNil)

	named, ok := registry.LoggerNamed("rtml.gesture")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, named, test.ShouldEqual, first)
	_, ok = registry.LoggerNamed("missing")
	test.That(t, ok, test.ShouldBeFalse)
}
