package uiassets

import (
	"embed"
	"io/fs"
)

// dist holds the built-in sheet UI so the web binary ships self-contained.
// A web/dist directory next to the executable takes precedence at runtime.
//
//go:embed all:dist
var embedded embed.FS

func FS() fs.FS {
	sub, err := fs.Sub(embedded, "dist")
	if err != nil {
		return embedded
	}
	return sub
}
