package main

import "rada-console/cmd"

func main() {
	cmd.Execute()
}
