package main

import "github.com/ericlevine/bchgo/cmd/bchtool/cmd"

func main() {
	cmd.Execute()
}
