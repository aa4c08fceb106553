// Package main is the entry point for the scrimmetrics CLI tool, which stores
// parsed scrim event batches and computes player/team performance metrics.
package main

import "github.com/pable/go-scrim-metrics/cmd"

func main() {
	cmd.Execute()
}
