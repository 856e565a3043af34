package main

import (
	"github.com/Imperial-iGEM/synbio/cmd"
)

// makeDocs is set when built with the docs tag
var makeDocs func()

func main() {
	if makeDocs != nil {
		makeDocs()
		return
	}
	cmd.Execute() // initialize cobra commands
}
