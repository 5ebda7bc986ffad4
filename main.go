package main

import "github.com/KaramelBytes/plyview/cmd"

func main() {
	cmd.Execute()
}
