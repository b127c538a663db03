// chatwrapped - Chat Transcript Analysis Tool
//
// chatwrapped ingests plain-text chat exports in a variety of layouts,
// normalizes them into timestamped records, and produces year-in-review
// style statistics for a channel and its contributors.
package main

import (
	"os"

	"github.com/dshalom/chatwrapped/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
