package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/ebxkit/internal/logger"
	"github.com/samcharles93/ebxkit/pkg/ebx"
	"github.com/samcharles93/ebxkit/pkg/ebx/printer"
)

func dumpCmd() *cli.Command {
	var (
		filePath   string
		format     string
		instance   string
		outPath    string
		indent     string
		withHeader bool
		settings   decodeSettings
	)

	return &cli.Command{
		Name:  "dump",
		Usage: "Render the decoded object graph as xml, tree or json",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "path to .ebx file (plain or zstd)",
				Destination: &filePath,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (xml, tree, json)",
				Value:       string(printer.FormatXML),
				Destination: &format,
			},
			&cli.StringFlag{
				Name:        "instance",
				Aliases:     []string{"i"},
				Usage:       "only render the instance with this GUID",
				Destination: &instance,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "write to file instead of stdout",
				Destination: &outPath,
			},
			&cli.StringFlag{
				Name:        "indent",
				Usage:       "per-level indent (default: tab for xml, two spaces for tree)",
				Destination: &indent,
			},
			&cli.BoolFlag{
				Name:        "header",
				Usage:       "include header and imports in json output",
				Destination: &withHeader,
			},
		}, settings.flags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyDecodeConfig(cmd, appConfig, &settings)
			applyDumpConfig(cmd, appConfig, &indent)

			opts := printer.DefaultOptions()
			var err error
			if opts.Format, err = printer.ParseFormat(format); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if opts.GUIDFormat, err = printer.ParseGUIDFormat(settings.guidFormat); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			opts.Indent = indent
			opts.Header = withHeader
			if instance != "" {
				g, err := ebx.ParseGUID(instance)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				opts.Instance = &g
			}

			f, err := decodeFile(ctx, filePath, settings.options())
			if err != nil {
				return err
			}

			var w io.Writer = stdout(cmd)
			if outPath != "" {
				out, err := os.Create(outPath)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: create %s: %v", outPath, err), 1)
				}
				defer func() { _ = out.Close() }()
				w = out
			}
			if err := printer.Print(w, f, opts); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if outPath != "" {
				log.Info("wrote output", "path", outPath, "format", opts.Format)
			}
			return nil
		},
	}
}
