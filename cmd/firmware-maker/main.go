package main

import "github.com/minhmc2007/Samsung-Firmware-Maker/cmd/firmware-maker/cmd"

func main() {
	cmd.Execute()
}
