package main

import (
	"github.com/Laisky/datagate/cmd"
)

func main() {
	cmd.Execute()
}
