package main

import "github.com/gilanghuda/goal-tracker-backend/cmd"

func main() {
	cmd.Execute()
}
