package tatami

import _ "embed"

// Version is the release of this module, embedded from the VERSION file.
// Callers should strings.TrimSpace it.
//
//go:embed VERSION
var Version string
