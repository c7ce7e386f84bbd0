// Package web holds the embedded HTML templates and static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"time"
)

//go:embed templates/*.html static/*
var content embed.FS

var baseFuncs = template.FuncMap{
	"year": func() int { return time.Now().Year() },
	"inc":  func(i int) int { return i + 1 },
}

// Templates parses every page template. extra adds handler-specific funcs.
func Templates(extra template.FuncMap) (*template.Template, error) {
	funcs := template.FuncMap{}
	for k, v := range baseFuncs {
		funcs[k] = v
	}
	for k, v := range extra {
		funcs[k] = v
	}
	return template.New("").Funcs(funcs).ParseFS(content, "templates/*.html")
}

// Static returns the stylesheet and other assets served under /static
func Static() fs.FS {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
