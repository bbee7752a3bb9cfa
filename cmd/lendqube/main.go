package main

import "github.com/lendqube/lendqube/internal/cli"

func main() {
	cli.Execute()
}
