package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/goerr/v2"
	"github.com/promptly-dev/promptly/pkg/model"
	"github.com/urfave/cli/v3"
)

func generateCommand() *cli.Command {
	var (
		cfg    config
		search bool
		userID string
	)

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "search",
			Aliases:     []string{"s"},
			Usage:       "Augment the prompt with web search results",
			Sources:     cli.EnvVars("PROMPTLY_SEARCH"),
			Destination: &search,
		},
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User ID to record the generation under",
			Sources:     cli.EnvVars("PROMPTLY_USER_ID"),
			Destination: &userID,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:      "generate",
		Usage:     "Generate an answer for a single prompt",
		ArgsUsage: "<prompt>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			prompt := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(prompt) == "" {
				return goerr.New("prompt is required")
			}

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

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			sp.Suffix = " generating..."
			sp.Start()

			result, err := pipeline.Run(ctx, model.GenerationRequest{
				Prompt:        prompt,
				IncludeSearch: search,
				RequesterID:   userID,
			})
			sp.Stop()
			if err != nil {
				return goerr.Wrap(err, "generation failed")
			}

			printResult(c, result)

			// Flush the history write before the process exits
			pipeline.Wait()

			return nil
		},
	}
}

func printResult(c *cli.Command, result *model.GenerationResult) {
	w := c.Root().Writer
	fmt.Fprintf(w, "%s\n", result.Text)

	if len(result.Metadata.Highlights) > 0 {
		fmt.Fprintf(w, "\nHighlights:\n")
		for _, h := range result.Metadata.Highlights {
			fmt.Fprintf(w, "  - %s\n", h)
		}
	}
	if len(result.Metadata.Sources) > 0 {
		fmt.Fprintf(w, "\nSources:\n")
		for _, src := range result.Metadata.Sources {
			fmt.Fprintf(w, "  %s (%s)\n", src.Title, src.URL)
		}
	}
	fmt.Fprintf(w, "\n(%.2fs)\n", result.Metadata.ProcessingTime)
}
