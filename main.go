package main

import "github.com/gaurav-prasanna/mdpipe/cmd"

func main() {
	cmd.Execute()
}
