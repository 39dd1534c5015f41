package main

import "github.com/3218923350/ai4s-enum/cmd"

func main() {
	cmd.Execute()
}
