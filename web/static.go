// Package web embeds the console's landing page.
package web

import "embed"

//go:embed index.html
var StaticFS embed.FS
