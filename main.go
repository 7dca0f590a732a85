package main

import "github.com/jezper/faver/cmd"

func main() {
	cmd.Execute()
}
