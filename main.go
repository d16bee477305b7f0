package main

import "github.com/iksnae/itingen/cmd"

func main() {
	cmd.Execute()
}
