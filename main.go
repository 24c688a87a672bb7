package main

import "tracker-comparer/cmd"

func main() {
	cmd.Execute()
}
