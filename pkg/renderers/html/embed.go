package html

import "embed"

//go:embed templates/*.tpl
var templateFS embed.FS
