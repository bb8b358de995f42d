// Package web holds the templates and static files compiled into the binary.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static templates
var embedded embed.FS

// StaticFS is rooted at the static directory, so "css/style.css" resolves.
func StaticFS() fs.FS {
	return mustSub("static")
}

// TemplatesFS is rooted at the templates directory.
func TemplatesFS() fs.FS {
	return mustSub("templates")
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(embedded, dir)
	if err != nil {
		panic("web: embedded " + dir + " directory missing: " + err.Error())
	}
	return sub
}
