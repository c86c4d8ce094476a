package main

import (
	"log"

	"github.com/spigell/intern-allocator/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
