package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "intern-allocator"

	defaultStudentsFile      = "data/students.json"
	defaultOrganizationsFile = "data/organizations.json"
)

type Config struct {
	StudentsFile      string `mapstructure:"students-file"`
	OrganizationsFile string `mapstructure:"organizations-file"`
	ExcludeFile       string `mapstructure:"exclude-file"`
	Match             *MatchConfig
	JobBoard          *JobBoardConfig `mapstructure:"jobboard"`
}

type MatchConfig struct {
	Student      string  `mapstructure:"student"`
	MinimumScore float64 `mapstructure:"minimum-score"`
	Exclude      *struct {
		Organizations []string
	}
}

type JobBoardConfig struct {
	BaseURL    string `mapstructure:"base-url"`
	TokenFile  string `mapstructure:"token-file"`
	UserAgent  string `mapstructure:"user-agent"`
	Experience string `mapstructure:"experience"`
	MaxRetries int    `mapstructure:"max-retries"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "intern-allocator is a simple cli for matching student profiles to internship postings by skills overlap",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("jobboard.token-file", "INTERN_BOARD_TOKEN_FILE"); err != nil {
		log.Fatalf("binding INTERN_BOARD_TOKEN_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is intern-allocator.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetDefault("students-file", defaultStudentsFile)
	viper.SetDefault("organizations-file", defaultOrganizationsFile)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The roster files have usable defaults, so a missing config file is
	// fine unless one was requested explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	if config.Match == nil {
		config.Match = &MatchConfig{}
	}
	if config.JobBoard == nil {
		config.JobBoard = &JobBoardConfig{}
	}

	return config, nil
}
