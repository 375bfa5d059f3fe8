package folio

import "embed"

// EmbeddedAssets contains files shipped with the binary:
// site.css, filters.js and the default software.yaml catalogue.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
