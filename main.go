// Package main is the entry point for the leaguemetrics CLI tool, which imports
// head-to-head fantasy league results and computes power rankings, playoff
// odds, luck and schedule difficulty.
package main

import "github.com/pable/go-league-metrics/cmd"

func main() {
	cmd.Execute()
}
