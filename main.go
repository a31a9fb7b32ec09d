package main

import "tuidrive/internal/cli"

func main() {
	cli.Execute()
}
