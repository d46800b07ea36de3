package web

import "embed"

// Emails embeds the transactional email templates.
//
//go:embed templates/emails/*.html
var Emails embed.FS
