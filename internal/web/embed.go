package web

import (
	"embed"
	"io/fs"
	"path"
)

//go:embed docs/*
var embeddedDocs embed.FS

// docsEmbedFS is a wrapper around embed.FS to implement fs.FS interface
// for the 'docs' directory.
type docsEmbedFS struct {
	content embed.FS
}

// Open opens the named file from the 'docs' directory.
func (e docsEmbedFS) Open(name string) (fs.File, error) {
	return e.content.Open(path.Join("docs", name))
}
