// Package web holds the static form page served at "/".
package web

import _ "embed"

//go:embed index.html
var IndexHTML []byte
