package main

import "github.com/aibou-sh/aibou/cmd"

func main() {
	cmd.Execute()
}
