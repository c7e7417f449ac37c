package main

import "github.com/srad/channelnotify/cmd"

func main() {
	cmd.Execute()
}
