package main

import (
	"os"

	"github.com/lureiny/xrayluci/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
