package main

import "github.com/naka-gawa/devdash/cmd"

func main() {
	cmd.Execute()
}
