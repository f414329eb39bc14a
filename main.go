package main

import "diffing-research/cmd"

func main() {
	cmd.Execute()
}
