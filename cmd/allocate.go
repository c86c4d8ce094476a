package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spigell/intern-allocator/internal/logger"
	"github.com/spigell/intern-allocator/internal/matching"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Run the allocation across every registered student",
	Run: func(cmd *cobra.Command, _ []string) {
		allocate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(allocateCmd)

	allocateCmd.Flags().StringP("output", "o", "", "file for the allocation report. Default is a tmp file.")
	allocateCmd.Flags().BoolP("record", "r", false, "append allocated pairings to the exclude file")
	allocateCmd.Flags().StringP("exclude-file", "e", "", "special file with matches to exclude. Default is unset.")
}

// allocationReport is the aggregate produced by one allocation run.
type allocationReport struct {
	RunID       string            `json:"run_id"`
	Allocations []*matching.Match `json:"allocations"`
	Unmatched   []string          `json:"unmatched,omitempty"`
}

func allocate(cmd *cobra.Command) {
	ctx := context.Background()

	// The exclude-file flag is shared with the match command, so the
	// binding happens here instead of init.
	viper.BindPFlag("exclude-file", cmd.Flags().Lookup("exclude-file"))

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the allocation", zap.String("version", version))

	students, organizations, err := loadRoster(config)
	if err != nil {
		logger.Fatal("loading the roster", zap.Error(err))
	}

	if students.Len() == 0 || organizations.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no students or organizations registered"))
		return
	}

	logger.Info("loaded the roster",
		zap.Int("students", students.Len()),
		zap.Int("organizations", organizations.Len()),
		zap.Int("postings", organizations.Postings()),
	)

	report := &allocationReport{RunID: runID, Allocations: []*matching.Match{}}
	allocated := &matching.Matches{}

	for _, student := range students.Items {
		matches := matching.MatchAll(student, organizations)

		filtered, err := runFilters(ctx, config, logger.With(zap.String("student", student.Name)), matches)
		if err != nil {
			logger.Fatal("filtering failed", zap.Error(err))
		}

		best := filtered.Best()
		if best == nil {
			report.Unmatched = append(report.Unmatched, student.Name)
			logger.Info("no match for student", zap.String("student", student.Name))
			continue
		}

		report.Allocations = append(report.Allocations, best)
		allocated.Items = append(allocated.Items, best)

		logger.Info("allocated",
			zap.String("student", best.Student),
			zap.String("organization", best.Organization),
			zap.String("job", best.Job),
			zap.String("score", best.Score),
		)
	}

	logger.Info("allocation completed",
		zap.Int("allocated", len(report.Allocations)),
		zap.Int("unmatched", len(report.Unmatched)),
	)

	filename, err := writeReport(report, cmd.Flag("output").Value.String())
	if err != nil {
		logger.Fatal("writing the allocation report", zap.Error(err))
	}

	logger.Info("dumping the allocation report", zap.String("filename", filename))

	if cmd.Flag("record").Value.String() == "true" {
		if err := appendToExcludeFile(logger, allocated); err != nil {
			logger.Fatal("recording allocations", zap.Error(err))
		}
	}
}

func writeReport(report *allocationReport, path string) (string, error) {
	var file *os.File
	var err error

	if path == "" {
		file, err = os.CreateTemp("", "allocations_*.json")
	} else {
		file, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return "", fmt.Errorf("encode allocation report: %w", err)
	}

	return file.Name(), nil
}
