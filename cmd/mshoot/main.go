package main

import "github.com/mcoot/mountainshoot/internal/cli"

func main() {
	cli.Execute()
}
