package main

import "restscout/cmd"

func main() {
	cmd.Execute()
}
