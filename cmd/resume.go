package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spigell/intern-allocator/internal/jobboard"
	"github.com/spigell/intern-allocator/internal/logger"
	"github.com/spigell/intern-allocator/internal/matching"
	"github.com/spigell/intern-allocator/internal/secrets"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var resumeCmd = &cobra.Command{
	Use:   "resume <extracted-resume.json>",
	Short: "Match an extracted resume against the external job board",
	Long: "Match a loosely structured extracted-resume record against the external job board. " +
		"This path has no per-job required skills, so every hit gets a constant placeholder score.",
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		resume(args[0])
	},
}

func init() {
	rootCmd.AddCommand(resumeCmd)
}

func resume(path string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	profile, err := loadExtractedProfile(path)
	if err != nil {
		logger.Fatal("loading the extracted resume", zap.Error(err))
	}

	logger.Info("loaded the extracted resume",
		zap.String("name", profile.Name),
		zap.Int("skills", profile.SkillSet().Len()),
	)

	lookup := buildLookup(ctx, config.JobBoard, logger)
	if lookup == nil {
		logger.Warn("job board is not available",
			zap.String("hint", "set jobboard.base-url and a token to enable the lookup"),
		)
	}

	matches := matching.MatchExtracted(profile, lookup, config.JobBoard.Experience)

	logger.Info("matching completed", zap.Int("matches", matches.Len()))

	if matches.Len() == 0 {
		return
	}

	pretty, _ := json.MarshalIndent(matches, "", "  ")
	logger.Info(string(pretty))
}

// loadExtractedProfile reads a loosely structured record. Both a bare
// profile and an envelope with an extracted_info key are accepted, since
// extraction pipelines produce either.
func loadExtractedProfile(path string) (*matching.ExtractedProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse extracted resume: %w", err)
	}

	if nested, ok := raw["extracted_info"].(map[string]any); ok {
		raw = nested
	}

	profile := &matching.ExtractedProfile{}
	if err := mapstructure.Decode(raw, profile); err != nil {
		return nil, fmt.Errorf("decode extracted resume: %w", err)
	}

	return profile, nil
}

// buildLookup returns nil when the board is not configured. The fallback
// path treats a missing collaborator as zero results rather than an error.
func buildLookup(ctx context.Context, cfg *JobBoardConfig, logger *zap.Logger) matching.JobLookup {
	if cfg == nil || cfg.BaseURL == "" {
		return nil
	}

	tokenFile := strings.TrimSpace(cfg.TokenFile)
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("jobboard.token-file"))
	}

	token, err := secrets.Load(secrets.Source{
		Name: "job board token",
		File: tokenFile,
		Env:  "INTERN_BOARD_TOKEN",
	})
	if err != nil {
		logger.Warn("loading the job board token", zap.Error(err))
		return nil
	}

	client := jobboard.New(ctx, logger, cfg.BaseURL, token)
	client.MaxRetries = cfg.MaxRetries
	if cfg.UserAgent != "" {
		client.UserAgent = cfg.UserAgent
	}

	return client
}
