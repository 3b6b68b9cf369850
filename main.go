package main

import (
	"github.com/autoapprove/claude-auto-approve/cmd"

	_ "github.com/autoapprove/claude-auto-approve/internal/platform/darwin"
)

func main() {
	cmd.Execute()
}
