package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/spf13/cobra"
	"github.com/wolfman30/rivertown-concierge/cmd/mainconfig"
	"github.com/wolfman30/rivertown-concierge/internal/app/bootstrap"
	appconfig "github.com/wolfman30/rivertown-concierge/internal/config"
	"github.com/wolfman30/rivertown-concierge/internal/llm"
	"github.com/wolfman30/rivertown-concierge/pkg/logging"
)

// knowledgeQueries are asked of the knowledge store during verify.
var knowledgeQueries = []string{
	"What is the company history?",
	"What are your product specifications?",
	"What materials do you use in your products?",
}

type envCheck struct {
	key      string
	required bool
	note     string
}

var envChecks = []envCheck{
	{key: "AWS_REGION", required: true},
	{key: "BEDROCK_MODEL_ID", note: "defaults to Claude 3.5 Haiku"},
	{key: "ORDER_STORE", note: "defaults to dynamodb"},
	{key: "BLAND_API_KEY", note: "call-backs are disabled without it"},
	{key: "GEMINI_API_KEY", note: "no language model fallback without it"},
	{key: "KNOWLEDGE_BUCKET", note: "replies carry no company context without it"},
	{key: "REDIS_ADDR", note: "sessions are kept in memory without it"},
}

func newVerifyCmd() *cobra.Command {
	var skipLLM bool
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check configuration and that the language model and knowledge store answer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if missing := checkEnv(out, os.LookupEnv); len(missing) > 0 {
				return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
			}
			if skipLLM {
				return nil
			}

			cfg := appconfig.Load()
			logger := logging.NewWithWriter(cfg.LogLevel, cmd.ErrOrStderr())
			awsCfg, err := mainconfig.LoadAWSConfig(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("load AWS config: %w", err)
			}
			bedrock := bedrockruntime.NewFromConfig(awsCfg)

			client, closeClient := bootstrap.BuildLLMClient(cmd.Context(), cfg, bedrock, logger)
			defer closeClient()
			if err := verifyLLM(cmd.Context(), out, client, cfg.BedrockModelID); err != nil {
				return err
			}

			retriever := bootstrap.BuildKnowledge(cmd.Context(), cfg, awsCfg, bedrock, logger)
			return verifyKnowledge(cmd.Context(), out, retriever)
		},
	}
	cmd.Flags().BoolVar(&skipLLM, "skip-llm", false, "only check environment variables")
	return cmd
}

// checkEnv prints each variable's status and returns the required ones that
// are unset.
func checkEnv(out io.Writer, lookup func(string) (string, bool)) []string {
	fmt.Fprintln(out, "Environment:")
	var missing []string
	for _, c := range envChecks {
		value, ok := lookup(c.key)
		switch {
		case ok && strings.TrimSpace(value) != "":
			fmt.Fprintf(out, "  ok       %s\n", c.key)
		case c.required:
			fmt.Fprintf(out, "  missing  %s\n", c.key)
			missing = append(missing, c.key)
		default:
			fmt.Fprintf(out, "  unset    %s (%s)\n", c.key, c.note)
		}
	}
	return missing
}

func verifyLLM(ctx context.Context, out io.Writer, client llm.Client, model string) error {
	fmt.Fprintln(out, "Language model:")
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	start := time.Now()
	resp, err := client.Complete(ctx, llm.Request{
		Model:     model,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: "Say 'test' if you can hear me"}},
		MaxTokens: 50,
	})
	if err != nil {
		return fmt.Errorf("language model check failed: %w", err)
	}
	if strings.TrimSpace(resp.Text) == "" {
		return fmt.Errorf("language model returned an empty response")
	}
	fmt.Fprintf(out, "  ok       %s (%v, in=%d out=%d)\n", strings.TrimSpace(resp.Text),
		time.Since(start).Round(time.Millisecond), resp.Usage.InputTokens, resp.Usage.OutputTokens)
	return nil
}

func verifyKnowledge(ctx context.Context, out io.Writer, retriever llm.ContextRetriever) error {
	fmt.Fprintln(out, "Knowledge store:")
	if retriever == nil {
		fmt.Fprintln(out, "  skipped  no documents loaded")
		return nil
	}
	var failed int
	for _, q := range knowledgeQueries {
		passages, err := retriever.Retrieve(ctx, q)
		if err != nil || strings.TrimSpace(passages) == "" {
			fmt.Fprintf(out, "  empty    %s\n", q)
			failed++
			continue
		}
		fmt.Fprintf(out, "  ok       %s\n", q)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d knowledge queries returned nothing", failed, len(knowledgeQueries))
	}
	return nil
}
