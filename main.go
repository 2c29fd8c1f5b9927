package main

import "github.com/theirongolddev/cloud9/cmd"

func main() {
	cmd.Execute()
}
