package assets

import "embed"

// FS holds the web and email templates, the static files and the password blocklist.
//
//go:embed all:templates static common-passwords.txt
var FS embed.FS
