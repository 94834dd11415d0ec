package main

import (
	"os"

	"baystate-scraper-runner/cmd/devtool/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
