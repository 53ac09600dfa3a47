package main

import "github.com/AntonStoeckl/library-lending-go/internal/cli"

func main() {
	cli.Execute()
}
