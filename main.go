package main

import "github.com/Quidge/dxenv/cmd"

func main() {
	cmd.Execute()
}
