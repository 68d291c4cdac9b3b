package main

import (
	"os"

	clausehoundcmder "github.com/docketlab/clausehound/cmd/clausehound"
)

func main() {
	cmd := clausehoundcmder.NewClausehoundCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
