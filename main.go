package main

import "github.com/rpcsnoop/rpcsnoop/cmd"

func main() {
	cmd.Execute()
}
