package main

import (
	"fmt"
	"os"

	"github.com/DhanushPillay/VisioNova/cmd/visionova/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
