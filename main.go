package main

import "github.com/masmgr/nextver/cmd"

func main() {
	cmd.Run()
}
