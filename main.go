package main

import (
	"github.com/sidkik/groovepush/cmd"
	"github.com/sidkik/groovepush/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
