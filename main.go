package main

import "github.com/akashicode/weather/cmd"

func main() {
	cmd.Execute()
}
