package main

import (
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/ebxkit/pkg/ebx"
	"github.com/samcharles93/ebxkit/pkg/ebx/printer"
)

var (
	logLevel   string
	logFormat  string
	debug      bool
	configFile string
	appConfig  Config
)

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Usage:       "path to config.yaml (default: $XDG_CONFIG_HOME/ebxtool/config.yaml)",
		Destination: &configFile,
	}
}

// decodeSettings holds the flags shared by every command that decodes files.
type decodeSettings struct {
	maxDepth   int
	guidFormat string
}

func (s *decodeSettings) flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "max-depth",
			Usage:       "maximum struct/array nesting",
			Value:       ebx.DefaultMaxDepth,
			Destination: &s.maxDepth,
		},
		&cli.StringFlag{
			Name:        "guid-format",
			Usage:       "GUID rendering (hex, uuid)",
			Value:       string(printer.GUIDHex),
			Destination: &s.guidFormat,
		},
	}
}

func (s *decodeSettings) options() ebx.Options {
	return ebx.Options{MaxDepth: s.maxDepth}
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func errWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
