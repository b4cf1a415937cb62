package main

import "github.com/dayuer/aibot-go/cmd"

func main() {
	cmd.Execute()
}
