package main

import "github.com/twiced-technology-gmbh/tasklens/cmd"

func main() {
	cmd.Execute()
}
