package main

import "github.com/Tiger884/retro-pc-store/cmd"

func main() {
	cmd.Execute()
}
