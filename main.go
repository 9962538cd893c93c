package main

import (
	cmd "lpdss/cmd/cli"
)

func main() {
	cmd.Execute()
}
