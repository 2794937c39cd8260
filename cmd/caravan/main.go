package main

import "caravan/internal/game"

func main() {
	game.RunDesktop()
}
