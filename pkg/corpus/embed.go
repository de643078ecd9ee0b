package corpus

import "embed"

// builtinCasesFS embeds the built-in conformance cases.
//
//go:embed cases/*.yml
var builtinCasesFS embed.FS
