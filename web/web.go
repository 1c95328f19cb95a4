// Package web holds the demo page served at "/" and the assets served under /static.
package web

import _ "embed"

//go:embed view/index.html
var IndexHTML []byte
