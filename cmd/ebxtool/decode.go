package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/ebxkit/internal/logger"
	"github.com/samcharles93/ebxkit/internal/source"
	"github.com/samcharles93/ebxkit/pkg/ebx"
)

// decodeFile loads and decodes path, logging per-field failures.
func decodeFile(ctx context.Context, path string, opts ebx.Options) (*ebx.File, error) {
	log := logger.FromContext(ctx).With("file", path)

	p, err := source.Load(path)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("error: load %s: %v", path, err), 1)
	}
	defer func() { _ = p.Close() }()

	f, err := ebx.DecodeWithOptions(p.Data, opts)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("error: decode %s: %v", path, err), 1)
	}

	fieldErrs := f.FieldErrors()
	log.Debug("decoded",
		"size", len(p.Data),
		"compressed", p.Compressed,
		"instances", len(f.Instances),
		"field_errors", len(fieldErrs),
	)
	for _, fe := range fieldErrs {
		log.Warn("field not decoded", "path", fe.Path, "offset", fe.Offset, "error", fe.Err)
	}
	return f, nil
}
