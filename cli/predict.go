package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"

	"github.com/rtmltoolkit/rtml/config"
	"github.com/rtmltoolkit/rtml/logging"
	"github.com/rtmltoolkit/rtml/ml"
)

// PredictAction trains a recognizer with the example arguments and prints its prediction for
// every query.
func PredictAction(c *cli.Context) error {
	logger, closeLogger := newLogger(c)
	defer closeLogger()

	tr, err := recognizerFromContext(c, logger)
	if err != nil {
		return err
	}

	inputs, outputs, err := parseExamples(c.Args().Slice())
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return errors.New("at least one <input>=<output> example is required")
	}
	tr.Train(inputs, outputs)

	ctx := debugContext(c)
	for _, rawQuery := range strings.Split(c.String(predictFlagQuery), ";") {
		query, err := parseVector(rawQuery)
		if err != nil {
			return errors.Wrap(err, "query")
		}
		output := tr.Predict(query)
		logger.CDebugw(ctx, "predicted", "query", query, "output", output)
		printf(c.App.Writer, "%s -> %s", formatVector(query), formatVector(output))
		if c.Bool(predictFlagExplain) {
			if err := explain(c, tr, query); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateAction reads the configuration file and reports whether it is valid.
func ValidateAction(c *cli.Context) error {
	path := c.String(generalFlagConfig)
	if path == "" {
		return errors.Errorf("--%s is required", generalFlagConfig)
	}
	logger, closeLogger := newLogger(c)
	defer closeLogger()
	cfg, err := config.Read(path, logger)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(cfg.Recognizers))
	for _, conf := range cfg.Recognizers {
		names = append(names, conf.Name)
	}
	sort.Strings(names)
	printf(c.App.Writer, "%s is valid: %d recognizer(s) %s", path, len(names), strings.Join(names, ", "))
	return nil
}

// SchemaAction prints the JSON schema of the configuration file.
func SchemaAction(c *cli.Context) error {
	out, err := config.SchemaJSON()
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", out)
	return nil
}

// newLogger returns the command's logger and a func that flushes and closes its outputs.
func newLogger(c *cli.Context) (logging.Logger, func()) {
	logger := logging.NewBlankLogger("rtml")
	logger.SetLevel(logging.INFO)
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))

	var file *logging.FileAppender
	if path := c.String(generalFlagLogFile); path != "" {
		file = logging.NewFileAppender(path, logFileMaxSizeMB)
		logger.AddAppender(file)
	}
	return logger, func() {
		//nolint:errcheck
		logger.Sync()
		if file != nil {
			//nolint:errcheck
			file.Close()
		}
	}
}

// debugContext returns the command's context, in debug mode when --debug is set.
func debugContext(c *cli.Context) context.Context {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if c.Bool(generalFlagDebug) {
		ctx = logging.EnableDebugMode(ctx, c.Command.Name)
	}
	return ctx
}

// recognizerFromContext builds the recognizer named by --recognizer from the config file, or
// one described by the size flags when no config file is given.
func recognizerFromContext(c *cli.Context, logger logging.Logger) (*ml.TemplateRecognizer, error) {
	path := c.String(generalFlagConfig)
	if path == "" {
		metric, err := ml.ParseMetric(c.String(predictFlagMetric))
		if err != nil {
			return nil, err
		}
		return ml.NewTemplateRecognizer(
			c.Int(predictFlagInputSize),
			c.Int(predictFlagOutputSize),
			logger.Sublogger("cli"),
			ml.WithMetric(metric),
			ml.WithStrictLengths(c.Bool(predictFlagStrict)),
		), nil
	}

	cfg, err := config.Read(path, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		logging.GlobalLogLevel.SetLevel(zapcore.DebugLevel)
	}
	recognizers, err := cfg.BuildAll(logger, logging.NewRegistry())
	if err != nil {
		return nil, err
	}

	name := c.String(predictFlagRecognizer)
	if name == "" {
		if len(cfg.Recognizers) != 1 {
			return nil, errors.Errorf("config %q has %d recognizers; choose one with --%s",
				path, len(cfg.Recognizers), predictFlagRecognizer)
		}
		name = cfg.Recognizers[0].Name
	}
	if _, ok := cfg.FindRecognizer(name); !ok {
		return nil, errors.Errorf("no recognizer named %q in %q", name, path)
	}
	return recognizers[name], nil
}

func explain(c *cli.Context, tr *ml.TemplateRecognizer, query []float64) error {
	match, err := tr.Nearest(query)
	if err != nil {
		printf(c.App.Writer, "  %v", err)
		return nil
	}
	distances := stats.Float64Data(tr.Distances(query))
	minimum, err := distances.Min()
	if err != nil {
		return err
	}
	mean, err := distances.Mean()
	if err != nil {
		return err
	}
	median, err := distances.Median()
	if err != nil {
		return err
	}
	printf(c.App.Writer, "  nearest=%d distance=%.4g templates=%d min=%.4g mean=%.4g median=%.4g",
		match.Index, match.Distance, tr.Len(), minimum, mean, median)
	return nil
}

// printf prints a message with no prefix.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}
