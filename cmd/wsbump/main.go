package main

import "github.com/ariel-frischer/wsbump/internal/cli"

func main() {
	cli.Main()
}
