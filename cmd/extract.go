package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spigell/job-extractor/internal/connector"
	"github.com/spigell/job-extractor/internal/extract"
	"github.com/spigell/job-extractor/internal/fetch"
	"github.com/spigell/job-extractor/internal/logger"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a single job posting and print the result as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runExtract(cmd)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("file", "f", "", "file with the job posting text (default is stdin)")
	extractCmd.Flags().StringP("url", "u", "", "url of the job posting page")
	extractCmd.Flags().BoolP("auto-aprove", "y", false, "do not ask for confirmation before calling the model API")
}

func runExtract(cmd *cobra.Command) error {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	text, err := resolveText(ctx, cmd, logger)
	if err != nil {
		logger.Fatal("reading the job posting text", zap.Error(err))
	}

	if cmd.Flag("auto-aprove").Value.String() == "false" {
		prompt := promptui.Select{
			Label: fmt.Sprintf("Send %d characters to the model API?", len(text)),
			Items: []string{PromptYes, PromptNo},
		}

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if action == PromptNo {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return nil
		}
	}

	conn, err := buildConnector(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the extractor connector", zap.Error(err))
	}

	if err := conn.Initialize(ctx); err != nil {
		logger.Fatal("initializing the extractor connector", zap.Error(err))
	}

	return extractOnce(ctx, conn, logger, os.Stdout, text)
}

// extractOnce runs a single extraction and prints the result. The connector
// is always torn down, including when the extraction fails.
func extractOnce(ctx context.Context, conn connector.Connector, logger *zap.Logger, out io.Writer, text string) error {
	service := extract.New(conn, logger)
	defer func() {
		if err := service.Cleanup(); err != nil {
			logger.Warn("connector cleanup", zap.Error(err))
		}
	}()

	response, err := service.ExtractJob(ctx, text)
	if err != nil {
		logger.Error("extracting the job posting", zap.Error(err))
		return err
	}

	pretty, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(out, string(pretty))
	return nil
}

func resolveText(ctx context.Context, cmd *cobra.Command, logger *zap.Logger) (string, error) {
	if rawURL := cmd.Flag("url").Value.String(); rawURL != "" {
		return fetch.New(0, logger).JobText(ctx, rawURL)
	}

	if file := cmd.Flag("file").Value.String(); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
