package main

import (
	"github.com/lexeq/lexeq/pkg/cli"
)

func main() {
	cli.Execute()
}
