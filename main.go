package main

import (
	"os"

	"github.com/Monilnarang/Therapy-Esther/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
