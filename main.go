package main

import "watchstate/cmd"

func main() {
	cmd.Execute()
}
