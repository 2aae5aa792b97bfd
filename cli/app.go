// Package cli contains the rtml command line tool.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	generalFlagConfig  = "config"
	generalFlagDebug   = "debug"
	generalFlagLogFile = "log-file"

	predictFlagRecognizer = "recognizer"
	predictFlagQuery      = "query"
	predictFlagInputSize  = "input-size"
	predictFlagOutputSize = "output-size"
	predictFlagMetric     = "metric"
	predictFlagStrict     = "strict"
	predictFlagExplain    = "explain"

	logFileMaxSizeMB = 64
)

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut. Logs go to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "rtml",
		Usage:           "train and query example driven recognizers",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    generalFlagConfig,
				Aliases: []string{"c"},
				Usage:   "load recognizer configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:    generalFlagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  generalFlagLogFile,
				Usage: "also write logs to `FILE`, rotating it as it grows",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "predict",
				Usage:     "train a recognizer with the example arguments and print its answer for each query",
				UsageText: "rtml predict --query <input>[;<input>...] [other options] <input>=<output> [<input>=<output>...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  predictFlagRecognizer,
						Usage: "name of the configured recognizer to use; required when the config has more than one",
					},
					&cli.StringFlag{
						Name:     predictFlagQuery,
						Aliases:  []string{"q"},
						Usage:    "comma separated query `INPUT`; separate several queries with ';'",
						Required: true,
					},
					&cli.IntFlag{
						Name:  predictFlagInputSize,
						Usage: "declared input size when no config is given",
					},
					&cli.IntFlag{
						Name:  predictFlagOutputSize,
						Usage: "declared output size when no config is given",
					},
					&cli.StringFlag{
						Name:  predictFlagMetric,
						Usage: "distance metric when no config is given: euclidean, manhattan or chebyshev",
						Value: "euclidean",
					},
					&cli.BoolFlag{
						Name:  predictFlagStrict,
						Usage: "reject vectors whose length differs from the declared sizes when no config is given",
					},
					&cli.BoolFlag{
						Name:  predictFlagExplain,
						Usage: "print the nearest template and a summary of all distances",
					},
				},
				Action: PredictAction,
			},
			{
				Name:      "validate",
				Usage:     "validate a recognizer configuration file",
				UsageText: "rtml --config <FILE> validate",
				Action:    ValidateAction,
			},
			{
				Name:   "schema",
				Usage:  "print the JSON schema of the configuration file",
				Action: SchemaAction,
			},
		},
	}
}
