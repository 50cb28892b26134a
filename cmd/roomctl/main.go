package main

import (
	"roomd/internal/cli"
)

func main() {
	cli.Execute()
}
