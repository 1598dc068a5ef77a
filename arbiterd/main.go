package main

import (
	"os"

	"github.com/viant/arbiter/cmd/arbiterd"
)

func main() {
	arbiterd.Run(os.Args[1:])
}
