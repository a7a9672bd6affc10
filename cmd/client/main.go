package main

import "funkokeeper/cmd/client/cmd"

func main() {
	cmd.Execute()
}
