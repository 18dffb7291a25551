package main

import (
	"os"

	"robot-registry/internal/app"
)

func main() {
	if err := newRootCmd(app.New).Execute(); err != nil {
		os.Exit(1)
	}
}
