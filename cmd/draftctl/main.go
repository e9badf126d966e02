package main

import "github.com/DoyleJ11/hoops-draft-client/internal/cli"

func main() {
	cli.Execute()
}
