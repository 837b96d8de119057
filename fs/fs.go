// Package appfs embeds the database migrations and the templates.
package appfs

import "embed"

//go:embed migrations templates
var FS embed.FS
