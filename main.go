package main

import "github.com/xvierd/todo-cli/cmd"

func main() {
	cmd.Execute()
}
