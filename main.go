package main

import "shufflebox/cmd"

func main() {
	cmd.Execute()
}
