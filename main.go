package main

import (
	"github.com/agentic-fairsim/agentic-fairsim/cmd"
)

func main() {
	cmd.Execute()
}
