// Package templates embeds the HTML pages served by package web.
package templates

import "embed"

//go:embed *.html pages/*.html partials/*.html
var FS embed.FS
