package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/* static/*
var content embed.FS

// Templates parses the embedded status page templates
func Templates() (*template.Template, error) {
	return template.ParseFS(content, "templates/*.html")
}

// StaticFS returns the embedded stylesheet and scripts
func StaticFS() fs.FS {
	staticFS, _ := fs.Sub(content, "static")
	return staticFS
}
