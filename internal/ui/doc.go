// Package ui renders progress for the scaffolding steps: an animated spinner
// on a terminal, plain log lines otherwise.
package ui
