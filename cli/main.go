package main

import (
	"os"

	"github.com/vegvisir-data/plsqlnorm/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
