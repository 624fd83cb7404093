package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/phonecat/internal/importer"
	"github.com/desertthunder/phonecat/internal/repositories"
	"github.com/desertthunder/phonecat/internal/services"
	"github.com/desertthunder/phonecat/internal/shared"
	"github.com/desertthunder/phonecat/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The database is opened on first use, so `--help` and `setup` never open a store.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer

	db      *sql.DB
	store   *repositories.Store
	catalog *services.CatalogService
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, importCommand, catalogCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by subsequently created components.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Close releases the database handle, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db, r.store, r.catalog = nil, nil, nil
	return err
}

// loadConfig replaces the runner config when --config was passed explicitly.
func (r *Runner) loadConfig(cmd *cli.Command) error {
	if !cmd.IsSet("config") {
		return nil
	}

	path := cmd.String("config")
	if path == r.configPath && r.db != nil {
		return nil
	}

	config, err := shared.LoadConfigOrDefault(path)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if err := r.Close(); err != nil {
		return err
	}
	r.config = config
	r.configPath = path
	return nil
}

func (r *Runner) openStore(cmd *cli.Command) (*repositories.Store, error) {
	if err := r.loadConfig(cmd); err != nil {
		return nil, err
	}
	if r.store != nil {
		return r.store, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", r.config.Database.Path, err)
	}
	r.logger.Debug("database opened", "path", r.config.Database.Path)

	r.db = db
	r.store = repositories.NewStore(db)
	return r.store, nil
}

func (r *Runner) catalogService(cmd *cli.Command) (*services.CatalogService, error) {
	store, err := r.openStore(cmd)
	if err != nil {
		return nil, err
	}
	if r.catalog == nil {
		r.catalog = services.NewCatalogService(store, shared.WithLogger(r.logger, "component", "catalog"))
	}
	return r.catalog, nil
}

func (r *Runner) newImporter(cmd *cli.Command) (*importer.Importer, error) {
	store, err := r.openStore(cmd)
	if err != nil {
		return nil, err
	}
	return importer.New(store, shared.WithLogger(r.logger, "component", "importer")), nil
}

func (r *Runner) importEngine(cmd *cli.Command) (*tasks.ImportEngine, error) {
	imp, err := r.newImporter(cmd)
	if err != nil {
		return nil, err
	}
	return tasks.NewImportEngine(imp, shared.WithLogger(r.logger, "component", "tasks")), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return err
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
