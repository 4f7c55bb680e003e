package main

import "github.com/theirongolddev/creditcast/cmd"

func main() {
	cmd.Execute()
}
