package main

import "github.com/pfrederiksen/marksix-history/internal/cli"

func main() {
	cli.Execute()
}
