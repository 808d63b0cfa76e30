package main

import "github.com/zinc-sig/rere/cmd"

func main() {
	cmd.Execute()
}
