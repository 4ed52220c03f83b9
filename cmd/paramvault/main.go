package main

import (
	"github.com/mavkit/paramvault/pkg/cli"
)

func main() {
	cli.Execute()
}
