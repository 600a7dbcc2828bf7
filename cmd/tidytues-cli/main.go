package main

import (
	"context"
	"tidytuesday-go/cmd/tidytues-cli/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
