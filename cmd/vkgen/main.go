package main

import "github.com/goliatone/go-vkgen/internal/cli"

func main() {
	cli.Execute()
}
