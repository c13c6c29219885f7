package main

import (
	"context"
	"os"

	"github.com/promptly-dev/promptly/pkg/cli"
	"github.com/promptly-dev/promptly/pkg/utils/logging"
)

func main() {
	ctx := context.Background()
	if err := cli.Run(ctx, os.Args); err != nil {
		logging.Default().Error(err.Message)
		os.Exit(err.Code)
	}
}
