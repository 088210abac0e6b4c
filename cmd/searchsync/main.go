package main

import (
	"os"

	"github.com/hashicorp-forge/searchsync/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
