package main

import (
	"os"

	"github.com/Ramsey-B/fennel/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
