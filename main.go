package main

import "github.com/fincheck-labs/pain001/cmd"

func main() {
	cmd.Execute()
}
