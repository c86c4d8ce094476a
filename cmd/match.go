package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/spigell/intern-allocator/internal/filtering"
	"github.com/spigell/intern-allocator/internal/logger"
	"github.com/spigell/intern-allocator/internal/matching"
	"github.com/spigell/intern-allocator/internal/roster"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptBestMatch           = "Show the best match"
	PromptReportByOrgs        = "Report by organizations"
	PromptMatchesToFile       = "Dump matches to file"
	PromptAppendToExcludeFile = "Append all matches to exclude file"
	PromptExit                = "Exit"
)

var errExit = errors.New("exit requested")

var matchPrompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptBestMatch, PromptReportByOrgs, PromptMatchesToFile, PromptAppendToExcludeFile, PromptExit},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match one student against all organizations",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().BoolP("auto-approve", "y", false, "print the best match and exit without prompting")
	matchCmd.Flags().StringP("student", "s", "", "student name to match. Overrides match.student from the config.")
	matchCmd.Flags().StringP("exclude-file", "e", "", "special file with matches to exclude. Default is unset.")

	viper.BindPFlag("match.student", matchCmd.Flags().Lookup("student"))
}

// match is the main command for the cli.
func match(cmd *cobra.Command) {
	ctx := context.Background()

	// The exclude-file flag is shared with the allocate command, so the
	// binding happens here instead of init.
	viper.BindPFlag("exclude-file", cmd.Flags().Lookup("exclude-file"))

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the intern-allocator", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	students, organizations, err := loadRoster(config)
	if err != nil {
		logger.Fatal("loading the roster", zap.Error(err))
	}

	logger.Info("loaded the roster",
		zap.Int("students", students.Len()),
		zap.Int("organizations", organizations.Len()),
		zap.Int("postings", organizations.Postings()),
	)

	student, err := selectStudent(students, config.Match.Student)
	if err != nil {
		logger.Fatal("selecting a student",
			zap.Error(err),
			zap.Any("existing student names", students.Names()),
		)
	}

	logger.Info("starting the matching", zap.String("student", student.Name))

	matches := matching.MatchAll(student, organizations)

	if matches.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no postings with declared skills found"))
		return
	}

	filtered, err := runFilters(ctx, config, logger, matches)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}
	matches = filtered

	if matches.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no matches left after filters"))
		return
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		reportBest(logger, matches)
		return
	}

	for {
		_, action, err := matchPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		logger.Info("current list of matches", zap.Int("count", matches.Len()))

		if err := handleAction(action, logger, matches); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, matches *matching.Matches) error {
	switch action {
	case PromptBestMatch:
		reportBest(logger, matches)
		return nil
	case PromptReportByOrgs:
		pretty, _ := json.MarshalIndent(matches.ReportByOrganization(), "", "  ")
		logger.Info(string(pretty), zap.Int("matches count", matches.Len()))
		return nil
	case PromptMatchesToFile:
		filename, err := matches.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return appendToExcludeFile(logger, matches)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func reportBest(logger *zap.Logger, matches *matching.Matches) {
	best := matches.Best()
	if best == nil {
		logger.Info("no best match", zap.String("reason", "nothing was scored"))
		return
	}

	logger.Info("best match",
		zap.String("student", best.Student),
		zap.String("organization", best.Organization),
		zap.String("job", best.Job),
		zap.String("score", best.Score),
	)
}

func appendToExcludeFile(logger *zap.Logger, matches *matching.Matches) error {
	excludeFile := viper.GetString("exclude-file")
	if excludeFile == "" {
		return errors.New("exclude file is not configured")
	}

	excluded, err := getExcludedMatches(excludeFile)
	if err != nil {
		return err
	}

	excluded.Append(matches.ToExcluded())

	if err := excluded.ToFile(excludeFile); err != nil {
		return err
	}

	logger.Info("appended to exclude file", zap.String("filename", excludeFile))

	matches.Exclude(matching.MatchKeyField, excluded.Keys())
	return nil
}

func getExcludedMatches(path string) (*matching.ExcludedMatches, error) {
	excluded, err := matching.GetExcludedMatchesFromFile(path)
	// Nothing was excluded yet.
	if errors.Is(err, fs.ErrNotExist) {
		return &matching.ExcludedMatches{}, nil
	}
	return excluded, err
}

func selectStudent(students *roster.Students, name string) (*roster.Student, error) {
	if students.Len() == 0 {
		return nil, errors.New("no students registered")
	}

	if name != "" {
		student := students.FindByName(name)
		if student == nil {
			return nil, fmt.Errorf("student with given name not found: %s", name)
		}
		return student, nil
	}

	studentPrompt := promptui.Select{
		Label: "Choose a student and press ENTER",
		Items: students.Names(),
	}

	_, selected, err := studentPrompt.Run()
	if err != nil {
		return nil, err
	}

	return students.FindByName(selected), nil
}

func loadRoster(config *Config) (*roster.Students, *roster.Organizations, error) {
	students, err := roster.LoadStudents(config.StudentsFile)
	if err != nil {
		return nil, nil, err
	}

	organizations, err := roster.LoadOrganizations(config.OrganizationsFile)
	if err != nil {
		return nil, nil, err
	}

	return students, organizations, nil
}

func runFilters(ctx context.Context, config *Config, logger *zap.Logger, matches *matching.Matches) (*matching.Matches, error) {
	steps := []filtering.Filter{
		filtering.NewMinScore(),
		filtering.NewOrganizations(),
		filtering.NewExcludeFile(),
	}

	cfg := &filtering.Config{
		MinimumScore: config.Match.MinimumScore,
		ExcludeFile:  viper.GetString("exclude-file"),
	}
	if config.Match.Exclude != nil {
		cfg.Organizations = config.Match.Exclude.Organizations
	}

	return filtering.Run(ctx, cfg, filtering.Deps{Logger: logger}, steps, matches)
}
