package main

import "github.com/adit9852/ChurnAI-Dashboard/cmd"

func main() {
	cmd.Execute()
}
