package main

import "github.com/jgwest/htmldiff-cli/cmd"

func main() {
	cmd.Execute()
}
