package main

import (
	"github.com/muninndb/muninn/cmd/muninn/cmd"
)

func main() {
	cmd.Execute()
}
