// Package main is the entry point for the reify CLI.
package main

import "reify.dev/pkg/reify/cmd"

func main() {
	cmd.Execute()
}
