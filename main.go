// Idiomatic entrypoint for Cobra CLI that deletes handling to the Cobra root command in cmd/root.go

package main

import (
	"github.com/isolsim/isolsim/cmd"
)

func main() {
	cmd.Execute()
}
