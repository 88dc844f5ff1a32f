package main

import "vpgsync/cmd/vpgsync-cli/cmd"

func main() {
	cmd.Execute()
}
