package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/promptly-dev/promptly/pkg/model"
	"github.com/promptly-dev/promptly/pkg/usecase/agent"
	"github.com/urfave/cli/v3"
)

func chatCommand() *cli.Command {
	var (
		cfg    config
		userID string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User ID to record the conversation under",
			Sources:     cli.EnvVars("PROMPTLY_USER_ID"),
			Destination: &userID,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "chat",
		Usage: "Interactive prompt session",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogging(ctx)

			app, err := cfg.loadAppConfig()
			if err != nil {
				return err
			}

			repo, closeRepo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer closeRepo()

			archive, err := cfg.newArchive(ctx)
			if err != nil {
				return err
			}

			pipeline, err := cfg.newPipeline(ctx, app, repo, archive)
			if err != nil {
				return err
			}

			// Same keyword heuristic the agent relay uses for inbound
			// chat messages
			keywords := app.Agent.SearchKeywords
			if len(keywords) == 0 {
				keywords = []string{"search"}
			}
			wantsSearch := agent.KeywordIntent(keywords...)

			rl, err := readline.New("> ")
			if err != nil {
				return goerr.Wrap(err, "failed to open terminal")
			}
			defer rl.Close()

			fmt.Fprintf(c.Root().Writer, "Chat session started. Type 'exit' to quit.\n")

			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return goerr.Wrap(err, "failed to read input")
				}

				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				if line == "exit" {
					break
				}

				result, err := pipeline.Run(ctx, model.GenerationRequest{
					Prompt:        line,
					IncludeSearch: wantsSearch(line),
					RequesterID:   userID,
				})
				if err != nil {
					fmt.Fprintf(c.Root().ErrWriter, "error: %v\n", err)
					continue
				}

				fmt.Fprintf(c.Root().Writer, "%s\n", result.Text)
			}

			fmt.Fprintf(c.Root().Writer, "\nChat session completed\n")
			pipeline.Wait()

			return nil
		},
	}
}
