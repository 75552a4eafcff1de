package main

import "github.com/example/brewbuddy/pkg/cli"

func main() {
	cli.Execute()
}
