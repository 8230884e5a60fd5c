package main

import (
	"github.com/notargets/gotopo/cmd"
)

func main() {
	cmd.Execute()
}
