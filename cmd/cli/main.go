package main

import (
	"os"

	"orgdesk/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
