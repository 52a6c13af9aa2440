package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"
	"github.com/wolfman30/rivertown-concierge/cmd/mainconfig"
	appconfig "github.com/wolfman30/rivertown-concierge/internal/config"
	"github.com/wolfman30/rivertown-concierge/internal/knowledge"
)

func newSeedKnowledgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-knowledge <dir>",
		Short: "Upload .txt and .md files from dir to the knowledge bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := appconfig.Load()
			if cfg.KnowledgeBucket == "" {
				return fmt.Errorf("KNOWLEDGE_BUCKET is required")
			}
			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", args[0])
			}

			awsCfg, err := mainconfig.LoadAWSConfig(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("load AWS config: %w", err)
			}
			client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
				o.UsePathStyle = cfg.AWSEndpointOverride != ""
			})

			n, err := knowledge.SeedS3(cmd.Context(), client, cfg.KnowledgeBucket, cfg.KnowledgePrefix, os.DirFS(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %d documents to s3://%s/%s\n", n, cfg.KnowledgeBucket, cfg.KnowledgePrefix)
			return nil
		},
	}
}
