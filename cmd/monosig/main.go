package main

import "monosig/internal/cli"

func main() {
	cli.Execute()
}
