package main

import "github.com/jot-sh/jot/cmd"

func main() {
	cmd.Execute()
}
