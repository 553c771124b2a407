package workflow

import (
	"errors"
	"io"
	"os"

	"github.com/samzong/gitai/internal/artifact"
	"github.com/samzong/gitai/internal/config"
	"github.com/samzong/gitai/internal/logging"
	"github.com/samzong/gitai/internal/ui"
	"go.uber.org/zap"
)

// ErrNotRepository is returned by flows that require a git work tree.
var ErrNotRepository = errors.New("not a git repository (or any of the parent directories)")

type Options struct {
	DryRun    bool
	NoVerify  bool
	ErrWriter io.Writer
	OutWriter io.Writer
	Logger    *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.ErrWriter == nil {
		o.ErrWriter = os.Stderr
	}
	if o.OutWriter == nil {
		o.OutWriter = os.Stdout
	}
	o.Logger = logging.OrNop(o.Logger)
	return o
}

// flow holds what every generation flow shares.
type flow struct {
	git       GitClient
	llm       LLMClient
	cfg       *config.Config
	opts      Options
	presenter *Presenter
	logger    *zap.Logger
}

func newFlow(name string, git GitClient, llm LLMClient, cfg *config.Config, opts Options) flow {
	opts = opts.withDefaults()
	if cfg == nil {
		cfg = &config.Config{Model: config.DefaultModel, TrunkBranches: config.DefaultTrunkBranches}
	}
	return flow{
		git:  git,
		llm:  llm,
		cfg:  cfg,
		opts: opts,
		presenter: &Presenter{
			Prompter: &InteractivePrompter{ErrWriter: opts.ErrWriter},
			Store:    artifact.NewStore(),
			Out:      opts.OutWriter,
			Err:      opts.ErrWriter,
		},
		logger: opts.Logger.With(zap.String("flow", name)),
	}
}

// SetPrompter replaces the terminal input source.
func (f *flow) SetPrompter(p Prompter) {
	f.presenter.Prompter = p
}

// SetStore replaces where generated Markdown is written.
func (f *flow) SetStore(s ArtifactStore) {
	f.presenter.Store = s
}

// generate runs fn behind a spinner.
func (f *flow) generate(message string, fn func() (string, error)) (string, error) {
	sp := ui.NewSpinner(f.opts.ErrWriter, message)
	sp.Start()
	text, err := fn()
	sp.Stop()
	return text, err
}

func (f *flow) requireRepository() error {
	if !f.git.IsGitRepository() {
		return ErrNotRepository
	}
	return nil
}
