package main

import "github.com/Shresth-Senwal/djedops2nd/cmd"

func main() {
	cmd.Execute()
}
