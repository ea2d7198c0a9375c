// Command scorer scores cricket matches ball by ball.
package main

import (
	"fmt"
	"os"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
