// Package web holds the portal's templates and browser assets.
package web

import (
	"embed"
	"mime"
)

// StaticPrefix is the URL path the asset tree is served under.
const StaticPrefix = "/static/"

// Templates holds layouts, partials and pages.
//
//go:embed templates
var Templates embed.FS

// Static holds stylesheets, the state poller and SVG icons.
//
//go:embed static
var Static embed.FS

// assetTypes covers the extensions under static/ that minimal container
// images lack a mime.types entry for.
var assetTypes = map[string]string{
	".css": "text/css; charset=utf-8",
	".js":  "text/javascript; charset=utf-8",
	".svg": "image/svg+xml",
}

func init() {
	for ext, typ := range assetTypes {
		if mime.TypeByExtension(ext) == "" {
			_ = mime.AddExtensionType(ext, typ)
		}
	}
}
