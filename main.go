package main

import "github.com/orbmesh/orbmesh/cmd"

func main() {
	cmd.Execute()
}
