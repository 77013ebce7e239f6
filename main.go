// Package main provides the entry point for the movie search and playlist API.
package main

import (
	"movieapp/cmd"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.SetVersion(version, buildTime)
	cmd.Execute()
}
