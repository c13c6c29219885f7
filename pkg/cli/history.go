package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/promptly-dev/promptly/pkg/model"
	"github.com/promptly-dev/promptly/pkg/usecase/history"
	"github.com/urfave/cli/v3"
)

func historyCommand() *cli.Command {
	var (
		cfg    config
		userID string
		limit  int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User ID to list history for",
			Sources:     cli.EnvVars("PROMPTLY_USER_ID"),
			Destination: &userID,
			Required:    true,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum number of entries to list",
			Value:       int64(model.MaxHistoryLimit),
			Sources:     cli.EnvVars("PROMPTLY_HISTORY_LIMIT"),
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "history",
		Usage: "List recent generations for a user",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogging(ctx)

			repo, closeRepo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer closeRepo()

			entries, err := history.New(repo).List(ctx, userID, int(limit))
			if err != nil {
				return goerr.Wrap(err, "failed to list history")
			}

			for _, e := range entries {
				fmt.Fprintf(c.Root().Writer, "%s\t%s\t%.2fs\n",
					e.CreatedAt.Format("2006-01-02 15:04:05"),
					truncate(e.Prompt, 60),
					e.Metadata.ProcessingTime)
			}

			return nil
		},
	}
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
