package main

import "github.com/valnor-game/valnor/internal/cli"

func main() {
	cli.Execute()
}
