package main

import "github.com/conn2flow/flowdev/cmd"

func main() {
	cmd.Execute()
}
