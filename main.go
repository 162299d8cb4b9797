package main

import "github.com/masnyjimmy/rentdocs/cmd"

func main() {
	cmd.Execute()
}
