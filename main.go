package main

import "github.com/cisagov/gophish-test/cmd"

func main() {
	cmd.Execute()
}
