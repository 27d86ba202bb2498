package main

import "github.com/nfrund/hostkit/cmd/hostkit/cmd"

func main() {
	cmd.Execute()
}
