// Package assets embeds files that busmerge can write out on request.
package assets

import "embed"

// Templates holds the starter configuration written by 'busmerge init'.
//
//go:embed busmerge.yaml
var Templates embed.FS

// ConfigTemplate is the name of the starter config inside Templates.
const ConfigTemplate = "busmerge.yaml"
