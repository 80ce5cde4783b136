// Package main provides the primock CLI, which prepares the Primock57
// consultation corpus for speech recognition training.
//
// Usage:
//
//	primock [flags] <command>
//
// Commands:
//
//	data     - split the corpus and package clips as <split>.tar.gz + <split>.csv
//	sent     - export split sentences for language model tooling
//	test     - read the packaged splits back and print a sample
//	index    - snapshot the parsed corpus to msgpack
//	stats    - print corpus and split statistics
//	publish  - upload packaged data to S3 or a local directory
package main

import (
	"fmt"
	"os"

	"github.com/ieee0824/primock-go/cmd/primock/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
