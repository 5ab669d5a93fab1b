package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/oshokin/fivem-installer/internal/config"
	"github.com/oshokin/fivem-installer/internal/domain/platform"
	"github.com/oshokin/fivem-installer/internal/logger"
	"github.com/oshokin/fivem-installer/internal/service/cmdrunner"
	"github.com/oshokin/fivem-installer/internal/service/download"
	"github.com/oshokin/fivem-installer/internal/service/extractor"
	"github.com/oshokin/fivem-installer/internal/service/firewall"
	"github.com/oshokin/fivem-installer/internal/service/hostinfo"
	"github.com/oshokin/fivem-installer/internal/service/locator"
	"github.com/oshokin/fivem-installer/internal/service/merger"
	"github.com/oshokin/fivem-installer/internal/service/mysql"
	"github.com/oshokin/fivem-installer/internal/service/preflight"
	"github.com/oshokin/fivem-installer/internal/service/prompt"
	"github.com/oshokin/fivem-installer/internal/service/serverconfig"
)

// Options contains inputs for the installer entry point.
type Options struct {
	// AnswersPath is a YAML answers file. Empty means ask interactively.
	AnswersPath string
	// SaveAnswersPath, when set, receives the final answers.
	SaveAnswersPath string
	// Platform overrides the platform from answers and detection.
	Platform string
	// WorkDir overrides the installation directory.
	WorkDir string
	// Force skips the running server check.
	Force bool
	// Progress renders download progress bars.
	Progress bool
}

var errPlatformRequired = errors.New("cannot detect the platform, set it in the answers file or with --platform")

type (
	detector interface {
		Detect(ctx context.Context) (hostinfo.Detection, error)
	}

	processChecker interface {
		Check(ctx context.Context) error
	}

	artifactResolver interface {
		ResolveLatest(ctx context.Context, tag platform.Tag) (string, error)
	}

	fetcher interface {
		Fetch(ctx context.Context, rawURL, dst string) (int64, error)
	}

	archiveExtractor interface {
		ExtractAndRemove(ctx context.Context, fileName string) error
	}

	resourceMerger interface {
		MergeResources(ctx context.Context, extractedRoot, namespace string) error
	}

	configWriter interface {
		WriteServerConfig(ctx context.Context, s serverconfig.Settings) error
		WriteResourcesConfig(ctx context.Context) (bool, error)
	}
)

// installer holds the resolved answers and every collaborator of the pipeline.
type installer struct {
	cfg      *config.Config
	force    bool
	out      io.Writer
	prompter prompt.Prompter

	checker   processChecker
	resolver  artifactResolver
	fetcher   fetcher
	extractor archiveExtractor
	merger    resourceMerger
	writer    configWriter

	newProvisioner func(cfg *config.Config) (mysql.Provisioner, error)
	newOpener      func(cfg *config.Config) (firewall.Opener, error)
}

// Run resolves the answers and installs the server.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "installer")

	prompter := prompt.New()

	cfg, err := resolveConfig(ctx, opts, hostinfo.New(), prompter)
	if err != nil {
		return err
	}

	inst := newInstaller(cfg, opts, prompter)
	if err = inst.run(ctx); err != nil {
		return fmt.Errorf("installation failed: %w", err)
	}

	return nil
}

// resolveConfig loads or collects answers, fills in the platform and saves them if asked.
func resolveConfig(ctx context.Context, opts *Options, hosts detector, prompter prompt.Prompter) (*config.Config, error) {
	cfg := config.Default()

	if opts.AnswersPath != "" {
		logger.InfoKV(ctx, "Loading answers", "path", opts.AnswersPath)

		loaded, err := config.Load(opts.AnswersPath)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	if opts.Platform != "" {
		cfg.Platform = opts.Platform
	}

	if opts.WorkDir != "" {
		cfg.WorkDir = opts.WorkDir
	}

	logger.Info(ctx, "Detecting operating system")

	detection, err := hosts.Detect(ctx)

	switch {
	case errors.Is(err, hostinfo.ErrUnknownDistribution):
		logger.Warnf(ctx, "Unknown Linux distribution %q", detection.Distribution)
	case err != nil:
		return nil, err
	}

	if opts.AnswersPath == "" {
		if err = prompt.Collect(ctx, prompter, cfg, detection.Tag); err != nil {
			return nil, err
		}
	} else if cfg.Platform == "" {
		if detection.Tag == "" {
			return nil, errPlatformRequired
		}

		cfg.Platform = string(detection.Tag)
	}

	if err = config.Validate(cfg); err != nil {
		return nil, err
	}

	if cfg.Platform == "" {
		return nil, errPlatformRequired
	}

	if opts.SaveAnswersPath != "" {
		if err = config.Save(opts.SaveAnswersPath, cfg); err != nil {
			return nil, err
		}

		logger.InfoKV(ctx, "Answers saved", "path", opts.SaveAnswersPath)
	}

	return cfg, nil
}

// newInstaller wires the production collaborators for cfg.
func newInstaller(cfg *config.Config, opts *Options, prompter prompt.Prompter) *installer {
	return &installer{
		cfg:      cfg,
		force:    opts.Force,
		out:      os.Stdout,
		prompter: prompter,
		checker:  preflight.New(),
		resolver: locator.New(
			locator.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
			locator.WithListingURL(platform.FamilyWindows, cfg.Sources.WindowsListing),
			locator.WithListingURL(platform.FamilyLinux, cfg.Sources.LinuxListing),
		),
		fetcher:   download.New(download.WithProgress(opts.Progress)),
		extractor: extractor.New(extractor.WithDir(cfg.WorkDir)),
		merger:    merger.New(merger.WithDir(cfg.WorkDir)),
		writer:    serverconfig.New(serverconfig.WithDir(cfg.WorkDir)),
		newProvisioner: func(cfg *config.Config) (mysql.Provisioner, error) {
			return newProvisioner(cfg, prompter)
		},
		newOpener: func(cfg *config.Config) (firewall.Opener, error) {
			return firewall.New(cfg.Firewall, cfg.Tag(), cmdrunner.New(cmdrunner.WithSudo()))
		},
	}
}

// newProvisioner picks SQL when an admin DSN is given, manual steps on Windows and the shell otherwise.
func newProvisioner(cfg *config.Config, confirmer mysql.Confirmer) (mysql.Provisioner, error) {
	switch {
	case cfg.MySQL.AdminDSN != "":
		return mysql.NewSQLProvisioner(cfg.MySQL.AdminDSN)
	case cfg.Tag().IsWindows():
		return mysql.NewManualProvisioner(confirmer), nil
	default:
		return mysql.NewShellProvisioner(cmdrunner.New(cmdrunner.WithSudo())), nil
	}
}

// run executes the pipeline steps in order.
func (i *installer) run(ctx context.Context) error {
	tag := i.cfg.Tag()
	ctx = logger.WithKV(ctx, "platform", tag.String())

	if i.force {
		logger.Warn(ctx, "Skipping the running server check")
	} else if err := i.checker.Check(ctx); err != nil {
		return err
	}

	if err := os.MkdirAll(i.cfg.WorkDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", i.cfg.WorkDir, err)
	}

	if err := i.installArtifact(ctx, tag); err != nil {
		return err
	}

	if err := i.provisionDatabase(ctx); err != nil {
		return err
	}

	if i.cfg.TxAdmin {
		logger.Info(ctx, "Server data and server.cfg are left to txAdmin")
	} else if err := i.installServerData(ctx); err != nil {
		return err
	}

	i.openPorts(ctx)
	i.printSummary(tag)

	return nil
}

func (i *installer) installArtifact(ctx context.Context, tag platform.Tag) error {
	logger.Info(ctx, "Fetching latest artifact URL")

	artifactURL, err := i.resolver.ResolveLatest(ctx, tag)
	if err != nil {
		return err
	}

	return i.fetchAndExtract(ctx, artifactURL, tag.Family().ArtifactFilename())
}

func (i *installer) fetchAndExtract(ctx context.Context, rawURL, fileName string) error {
	dst := filepath.Join(i.cfg.WorkDir, fileName)

	if _, err := i.fetcher.Fetch(ctx, rawURL, dst); err != nil {
		return err
	}

	return i.extractor.ExtractAndRemove(ctx, dst)
}

func (i *installer) provisionDatabase(ctx context.Context) error {
	if !i.cfg.MySQL.Setup {
		logger.Info(ctx, "MySQL setup skipped")
		return nil
	}

	ctx = logger.WithName(ctx, "mysql")

	provisioner, err := i.newProvisioner(i.cfg)
	if err != nil {
		return err
	}

	if err = provisioner.EnsureInstalled(ctx); err != nil {
		return err
	}

	if i.cfg.MySQL.CreateDatabase {
		if err = provisioner.CreateDatabase(ctx, i.cfg.MySQL.Database); err != nil {
			return err
		}
	}

	logger.Info(ctx, "MySQL setup completed")

	return nil
}

func (i *installer) installServerData(ctx context.Context) error {
	logger.Info(ctx, "Setting up FiveM server data")

	sources := i.cfg.Sources
	if err := i.fetchAndExtract(ctx, sources.ServerData, serverDataFilename); err != nil {
		return err
	}

	if err := i.merger.MergeResources(ctx, sources.ServerDataRoot, sources.Namespace); err != nil {
		return err
	}

	settings := serverconfig.Settings{
		Name:       i.cfg.Server.Name,
		Port:       i.cfg.Server.Port,
		LicenseKey: i.cfg.Server.LicenseKey,
		Database:   i.cfg.MySQL.Database,
	}

	if err := i.writer.WriteServerConfig(ctx, settings); err != nil {
		return err
	}

	_, err := i.writer.WriteResourcesConfig(ctx)

	return err
}

// openPorts never fails the run, the operator can open ports by hand.
func (i *installer) openPorts(ctx context.Context) {
	ctx = logger.WithName(ctx, "firewall")

	opener, err := i.newOpener(i.cfg)
	if err == nil {
		logger.InfoKV(ctx, "Opening necessary ports", "backend", opener.Name(), "port", i.cfg.Server.Port)
		err = opener.Open(ctx, i.cfg.Server.Port)
	}

	if err != nil {
		logger.WarnKV(ctx, "Failed to open ports", "error", err)
		logger.Warn(ctx, firewall.ManualInstructions(i.cfg.Server.Port))
	}
}
