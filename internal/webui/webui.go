// Package webui provides the embedded single-page viewer served by
// `ebxtool serve`. The page uploads a file to the decode API and shows the
// rendered result.
package webui

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFS embed.FS

// StaticFS returns an http.FileSystem for the embedded static files.
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The embed path is fixed at build time.
		panic(err)
	}
	return http.FS(sub)
}

// Handler serves the viewer.
func Handler() http.Handler {
	return http.FileServer(StaticFS())
}
