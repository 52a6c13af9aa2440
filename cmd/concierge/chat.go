package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/wolfman30/rivertown-concierge/cmd/mainconfig"
	"github.com/wolfman30/rivertown-concierge/internal/app/bootstrap"
	appconfig "github.com/wolfman30/rivertown-concierge/internal/config"
	"github.com/wolfman30/rivertown-concierge/internal/intent"
	"github.com/wolfman30/rivertown-concierge/pkg/logging"
)

func newChatCmd() *cobra.Command {
	var rawHTML bool
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the concierge from the terminal",
		Long: "Starts a session and reads one message per line. Type /reset to start over, " +
			"/callback <number> to request a call and /quit to leave.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := appconfig.Load()
			logger := logging.NewWithWriter(cfg.LogLevel, cmd.ErrOrStderr())

			awsCfg, err := mainconfig.LoadAWSConfig(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("load AWS config: %w", err)
			}
			app, err := bootstrap.Build(cmd.Context(), cfg, awsCfg, prometheus.NewRegistry(), logger)
			if err != nil {
				return err
			}
			defer app.Close()

			return runChat(cmd.Context(), app, cmd.InOrStdin(), cmd.OutOrStdout(), rawHTML)
		},
	}
	cmd.Flags().BoolVar(&rawHTML, "raw-html", false, "print html responses without flattening them")
	return cmd
}

func runChat(ctx context.Context, app *bootstrap.App, in io.Reader, out io.Writer, rawHTML bool) error {
	sess, err := app.Chat.Start(ctx)
	if err != nil {
		return err
	}
	for _, msg := range sess.Messages {
		fmt.Fprintf(out, "%s: %s\n", app.Persona.CompanyName, msg.Content)
	}

	show := func(resp intent.Response) {
		content := resp.Content
		if resp.IsHTML() && !rawHTML {
			content = renderText(content)
		}
		fmt.Fprintf(out, "%s: %s\n", app.Persona.CompanyName, content)
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			return app.Chat.End(ctx, sess.ID)
		case line == "/reset":
			fresh, err := app.Chat.Reset(ctx, sess.ID)
			if err != nil {
				return err
			}
			for _, msg := range fresh.Messages {
				fmt.Fprintf(out, "%s: %s\n", app.Persona.CompanyName, msg.Content)
			}
			continue
		case strings.HasPrefix(line, "/callback "):
			reply, err := app.Chat.Callback(ctx, sess.ID, strings.TrimPrefix(line, "/callback "))
			if err != nil {
				return err
			}
			show(reply.Response)
			continue
		}

		reply, err := app.Chat.Send(ctx, sess.ID, line)
		if err != nil {
			return err
		}
		show(reply.Response)
	}
}
