package main

import "github.com/notargets/ibpm/cmd"

func main() {
	cmd.Execute()
}
