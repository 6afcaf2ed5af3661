package di

import (
	"io"
	"os"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/samber/oops"
	"github.com/viant/afs"

	"kilometers.ai/dropin/internal/application/audit"
	"kilometers.ai/dropin/internal/core/resolve"
	"kilometers.ai/dropin/internal/infrastructure/config"
	"kilometers.ai/dropin/internal/infrastructure/fragment"
	"kilometers.ai/dropin/internal/interfaces/cli"
	"kilometers.ai/dropin/internal/logging"
)

// Container holds all application dependencies
type Container struct {
	// Configuration
	Config    *config.AppConfig
	Validator *config.ConfigValidator

	// Infrastructure
	FS     afs.Service
	Loader *fragment.FileLoader

	// Application services
	Audit *audit.Service

	// CLI
	CLIContainer *cli.CLIContainer

	// Logger
	Logger hclog.Logger

	logOutput io.Writer
	once      sync.Once
	err       error
}

// NewContainer creates the dependency injection container. Components are
// built by Configure once the command line has been parsed.
func NewContainer() *Container {
	c := &Container{
		FS:        afs.New(),
		Validator: config.NewConfigValidator(),
		Logger:    logging.Discard(),
		logOutput: os.Stderr,
	}
	c.CLIContainer = &cli.CLIContainer{
		Validator:     c.Validator,
		Logger:        c.Logger,
		MainContainer: c, // Reference to self so flags can be applied
	}
	return c
}

// WithFS replaces the filesystem service
func (c *Container) WithFS(fs afs.Service) *Container {
	c.FS = fs
	return c
}

// WithLogOutput replaces the log destination
func (c *Container) WithLogOutput(w io.Writer) *Container {
	c.logOutput = w
	return c
}

// Configure loads the configuration with the given flag overrides and wires
// every component. Only the first call has any effect.
func (c *Container) Configure(opts cli.Options) error {
	c.once.Do(func() {
		c.err = c.initializeComponents(opts)
	})
	return c.err
}

// initializeComponents initializes all components with proper dependencies
func (c *Container) initializeComponents(opts cli.Options) error {
	c.Logger = logging.New(opts.Debug, c.logOutput)

	// 1. Load configuration
	appConfig, err := config.Load(config.LoadOptions{
		Path:           opts.ConfigPath,
		OverrideValues: opts.Overrides,
	})
	if err != nil {
		return err
	}
	if errs := c.Validator.ValidateAll(appConfig); len(errs) > 0 {
		// Reported in full by the validate command
		c.Logger.Warn("configuration has problems", "count", len(errs))
	}
	c.Config = appConfig

	// 2. Initialize infrastructure components
	if err := c.Validator.ValidateOutput(appConfig.Output); err != nil {
		return oops.In("di").With("output", appConfig.Output).Wrap(err)
	}
	c.Loader = fragment.NewFileLoader(c.FS,
		fragment.WithRoot(appConfig.Root),
		fragment.WithStrict(appConfig.Strict),
		fragment.WithLogger(c.Logger),
	)

	// 3. Initialize application services
	c.Audit = audit.NewService(appConfig, c.Loader, resolve.NewResolver(), appConfig.MaxParallel, c.Logger)

	// 4. Initialize CLI container
	c.CLIContainer.Audit = c.Audit
	c.CLIContainer.Config = c.Config
	c.CLIContainer.Logger = c.Logger

	c.Logger.Debug("container initialized",
		"config_file", appConfig.ConfigFile,
		"root", appConfig.Root,
		"strict", appConfig.Strict,
		"domains", len(appConfig.Domains))
	return nil
}

// GetCLIContainer returns the CLI container for command execution
func (c *Container) GetCLIContainer() *cli.CLIContainer {
	return c.CLIContainer
}
