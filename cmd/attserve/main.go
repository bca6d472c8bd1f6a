package main

import (
	"os"
)

func main() {
	if err := Commands().Execute(); err != nil {
		os.Exit(1)
	}
}
