package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/promptly-dev/promptly/pkg/service/api"
	"github.com/promptly-dev/promptly/pkg/usecase/agent"
	"github.com/promptly-dev/promptly/pkg/usecase/history"
	"github.com/promptly-dev/promptly/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var (
		cfg       config
		addr      string
		policyDir string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Listen address",
			Value:       ":8080",
			Sources:     cli.EnvVars("PROMPTLY_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "policy-dir",
			Usage:       "Directory with Rego policies gating agent dispatch",
			Sources:     cli.EnvVars("PROMPTLY_POLICY_DIR"),
			Destination: &policyDir,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, streamFlags(&cfg)...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogging(ctx)
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

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

			transport, err := cfg.newTransport()
			if err != nil {
				return err
			}

			var agentCtl api.AgentControl
			var relay *agent.Relay
			if transport != nil {
				var opts []agent.Option
				if len(app.Agent.SearchKeywords) > 0 {
					opts = append(opts, agent.WithSearchIntent(agent.KeywordIntent(app.Agent.SearchKeywords...)))
				}
				if app.Agent.QueueSize > 0 {
					opts = append(opts, agent.WithQueueSize(app.Agent.QueueSize))
				}
				if policyDir != "" {
					policy, err := agent.NewDispatchPolicy(ctx, policyDir)
					if err != nil {
						return err
					}
					if policy != nil {
						opts = append(opts, agent.WithDispatchPolicy(policy))
					}
				}

				relay = agent.New(transport, pipeline, opts...)
				agentCtl = relay
			} else {
				logging.From(ctx).Warn("stream credentials not configured, agent endpoints are disabled")
			}

			srv := &http.Server{
				Addr:    addr,
				Handler: api.New(pipeline, history.New(repo, history.WithArchive(archive)), agentCtl),
			}

			errCh := make(chan error, 2)
			if relay != nil {
				go func() {
					errCh <- relay.Run(ctx)
				}()
			}
			go func() {
				logging.From(ctx).Info("server started", "addr", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
					return goerr.Wrap(err, "server failed")
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logging.From(ctx).Warn("failed to shut down server", "error", err)
			}

			// Drain history writes still in flight before exit
			pipeline.Wait()

			return nil
		},
	}
}
