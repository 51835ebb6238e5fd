package main

import "os"

const name = "bumpversion"

func main() {
	os.Exit(RunCLI(os.Stdout, os.Stderr, os.Args[1:]))
}
