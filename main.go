package main

import "airbnb-analysis/cmd"

func main() {
	cmd.Execute()
}
