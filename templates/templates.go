package templates

import "embed"

//go:embed report/*.tmpl
var FS embed.FS
