package main

import "github.com/faircloth-lab/meta/cmd"

func main() {
	cmd.Execute() // initialize cobra commands
}
