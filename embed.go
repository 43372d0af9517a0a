package main

import (
	"embed"
	"io/fs"
)

//go:embed web
var webFiles embed.FS

// getWebFS returns a sub-filesystem rooted at the "web" directory.
func getWebFS() fs.FS {
	sub, err := fs.Sub(webFiles, "web")
	if err != nil {
		panic(err)
	}
	return sub
}
