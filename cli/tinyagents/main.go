package main

import (
	"os"

	tinyagentscmder "github.com/boarnasia/tinyagents/cmd/tinyagents"
)

func main() {
	cmd := tinyagentscmder.NewTinyagentsCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
