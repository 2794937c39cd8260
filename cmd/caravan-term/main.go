package main

import (
	"fmt"
	"os"

	"caravan/internal/game"
)

func main() {
	if err := game.RunTerminal(); err != nil {
		fmt.Fprintf(os.Stderr, "caravan-term: %v\n", err)
		os.Exit(1)
	}
}
