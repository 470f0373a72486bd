package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/ebxkit/internal/api"
	"github.com/samcharles93/ebxkit/internal/logger"
	"github.com/samcharles93/ebxkit/internal/source"
	"github.com/samcharles93/ebxkit/internal/webui"
	"github.com/samcharles93/ebxkit/pkg/ebx/printer"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		cacheSize   int
		maxBody     int64
		readTimeout time.Duration
		withUI      bool
		settings    decodeSettings
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the EBX decode API",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.IntFlag{
				Name:        "cache-size",
				Usage:       "number of decoded files kept in memory",
				Value:       api.DefaultCacheSize,
				Destination: &cacheSize,
			},
			&cli.Int64Flag{
				Name:        "max-body-size",
				Usage:       "largest accepted upload in bytes, after decompression",
				Value:       source.DefaultMaxSize,
				Destination: &maxBody,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.BoolFlag{
				Name:        "ui",
				Usage:       "serve the web viewer at /",
				Value:       true,
				Destination: &withUI,
			},
		}, settings.flags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyDecodeConfig(cmd, appConfig, &settings)
			applyServeConfig(cmd, appConfig, &addr, &cacheSize)

			guids, err := printer.ParseGUIDFormat(settings.guidFormat)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			server, err := api.NewServer(api.Config{
				CacheSize:   cacheSize,
				MaxBodySize: maxBody,
				Decoder:     settings.options(),
				GUIDFormat:  guids,
				Logger:      log.WithGroup("api"),
			})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			if withUI {
				e.GET("/*", echo.WrapHandler(webui.Handler()))
			}
			log.Info("starting server", "address", addr, "cache_size", cacheSize)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
