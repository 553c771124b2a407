package cmd

import (
	"context"
	"fmt"

	"github.com/samzong/gitai/internal/config"
	"github.com/samzong/gitai/internal/git"
	"github.com/samzong/gitai/internal/llm"
	"github.com/samzong/gitai/internal/logging"
	"github.com/samzong/gitai/internal/workflow"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile   string
	model     string
	verbose   bool
	noVerify  bool
	dryRun    bool
	configErr error
	rootCmd   = &cobra.Command{
		Use:   "gitai [commit|pr|review|help]",
		Short: "gitai - AI assistant for commits, pull requests and code reviews",
		Long: `gitai reads your staged or branch changes from git and asks an ` +
			`OpenAI-compatible model to write the commit message, pull request ` +
			`description or code review for them. Running gitai without a command ` +
			`generates a commit message.`,
		Version:       fmt.Sprintf("%s (built at %s)", Version, BuildTime),
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
)

// Constructors for the collaborators of a flow, replaced in tests.
var (
	newGitClient = func(logger *zap.Logger) workflow.GitClient {
		return git.NewClient(git.Options{Verbose: verbose, Logger: logger})
	}
	newLLMClient = func(cfg *config.Config) workflow.LLMClient {
		return llm.NewClientFromConfig(cfg)
	}
)

// runnableFlow is satisfied by the commit, pr and review flows.
type runnableFlow interface {
	Run(ctx context.Context) error
	SetPrompter(p workflow.Prompter)
}

type flowBuilder func(workflow.GitClient, workflow.LLMClient, *config.Config, workflow.Options) runnableFlow

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// RootCmd exposes the command tree for documentation generators.
func RootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.RunE = runCommit
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Configuration file path (default is $XDG_CONFIG_HOME/gitai/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "LLM model to use for this run")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Show debug logs and every git command")
	addCommitFlags(rootCmd)

	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		fmt.Fprint(c.ErrOrStderr(), c.UsageString())
		return err
	})
}

func initConfig() {
	configErr = config.InitConfig(cfgFile)
}

// loadConfig resolves the configuration, letting --model win over every other source.
func loadConfig() (*config.Config, error) {
	if configErr != nil {
		return nil, fmt.Errorf("configuration error: %w", configErr)
	}
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}
	if model != "" {
		cfg.Model = model
	}
	return cfg, nil
}

func runFlow(cmd *cobra.Command, name string, build flowBuilder) error {
	logger := logging.New(verbose, errWriter())
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig()
	if err != nil {
		logger.Debug("configuration failed", zap.String("flow", name), zap.Error(err))
		return err
	}
	logger.Debug("configuration loaded",
		zap.String("flow", name),
		zap.String("model", cfg.Model),
		zap.String("config", config.ConfigFilePath()))

	opts := workflow.Options{
		DryRun:    dryRun,
		NoVerify:  noVerify,
		OutWriter: outWriter(),
		ErrWriter: errWriter(),
		Logger:    logger,
	}
	f := build(newGitClient(logger), newLLMClient(cfg), cfg, opts)
	f.SetPrompter(&workflow.InteractivePrompter{ErrWriter: opts.ErrWriter, Stdin: cmd.InOrStdin()})

	if err := f.Run(cmd.Context()); err != nil {
		logger.Debug("flow failed", zap.String("flow", name), zap.Error(err))
		return err
	}
	return nil
}
