package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/ebxkit/pkg/ebx"
	"github.com/samcharles93/ebxkit/pkg/ebx/printer"
)

func inspectCmd() *cli.Command {
	var (
		filePath   string
		showTables bool
		settings   decodeSettings
	)

	return &cli.Command{
		Name:  "inspect",
		Usage: "Print the header and metadata tables of an EBX file",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "path to .ebx file (plain or zstd)",
				Destination: &filePath,
				Required:    true,
			},
			&cli.BoolFlag{
				Name:        "tables",
				Usage:       "list imports, keywords, descriptors and repeaters",
				Destination: &showTables,
			},
		}, settings.flags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyDecodeConfig(cmd, appConfig, &settings)
			guids, err := printer.ParseGUIDFormat(settings.guidFormat)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			names := printer.Options{GUIDFormat: guids}

			f, err := decodeFile(ctx, filePath, settings.options())
			if err != nil {
				return err
			}

			w := stdout(cmd)
			_, _ = fmt.Fprint(w, f.Report())
			_, _ = fmt.Fprintf(w, "\nInstances (%d)\n", len(f.Instances))
			for i := range f.Instances {
				inst := &f.Instances[i]
				_, _ = fmt.Fprintf(w, "%04X : %s %s\n", i, names.FormatGUID(inst.GUID), inst.TypeName())
			}
			if errs := f.FieldErrors(); len(errs) > 0 {
				_, _ = fmt.Fprintf(w, "\nField errors (%d)\n", len(errs))
				for _, fe := range errs {
					_, _ = fmt.Fprintf(w, "%s\n", fe)
				}
			}
			if showTables {
				_, _ = fmt.Fprintln(w)
				if err := ebx.WriteTables(w, f); err != nil {
					return cli.Exit(fmt.Sprintf("error: write tables: %v", err), 1)
				}
			}
			return nil
		},
	}
}
