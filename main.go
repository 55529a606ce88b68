package main

import "github.com/theirongolddev/hydrate/cmd"

func main() {
	cmd.Execute()
}
