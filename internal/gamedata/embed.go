// Package gamedata provides the embedded rule tables (classes, abilities,
// class matchups) and typed registries over them.
package gamedata

import "embed"

// dataFS embeds all JSON rule files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS
