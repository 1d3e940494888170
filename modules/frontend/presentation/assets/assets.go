package assets

import (
	"embed"

	"github.com/benbjohnson/hashfs"
)

//go:embed css/*.css
var files embed.FS

// FS serves the embedded assets under content-hashed names.
var FS = hashfs.NewFS(files)

const Stylesheet = "css/main.css"
