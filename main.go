package main

import (
	"github.com/jjtimmons/phylo/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
