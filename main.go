package main

import (
	"fmt"
	"os"

	"github.com/glbter/distributed-systems/advisor/cmd"
	"github.com/glbter/distributed-systems/advisor/entities"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		switch entities.ErrorKind(err) {
		case entities.KindInvalidInput:
			os.Exit(2)
		case entities.KindConfiguration:
			os.Exit(3)
		default:
			os.Exit(1)
		}
	}
}
