package main

import "github.com/dgrudge/lobby/internal/cli"

func main() {
	cli.Execute()
}
