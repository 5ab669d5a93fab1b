package serverconfig

import (
	"bytes"
	"context"
	"crypto"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"

	"github.com/MakeNowJust/heredoc"
	goupdate "github.com/doitdistributed/go-update"

	"github.com/oshokin/fivem-installer/internal/domain/database"
	"github.com/oshokin/fivem-installer/internal/logger"
)

const (
	// ServerConfigFilename is the main FXServer configuration.
	ServerConfigFilename = "server.cfg"

	// ResourcesConfigFilename lists the resources started by server.cfg.
	ResourcesConfigFilename = "resources.cfg"

	// DefaultFileMode is applied to written configuration files.
	DefaultFileMode os.FileMode = 0o644
)

// DefaultResources are ensured by a freshly created resources.cfg.
//
//nolint:gochecknoglobals // Read-only list.
var DefaultResources = []string{
	"mapmanager",
	"chat",
	"spawnmanager",
	"sessionmanager",
	"basic-gamemode",
	"hardcap",
	"rconlog",
}

//nolint:gochecknoglobals // Parsed once.
var serverConfigTemplate = template.Must(template.New(ServerConfigFilename).Parse(heredoc.Doc(`
	# Server Configuration
	endpoint_add_tcp "0.0.0.0:{{ .Port }}"
	endpoint_add_udp "0.0.0.0:{{ .Port }}"

	# Server info
	sv_hostname "{{ .Name }}"
	sets sv_projectName "My FiveM Server"
	sets sv_projectDesc "A FiveM Server"

	# Server properties
	sv_enforceGamebuild 3095
	sv_maxclients 10
	sv_scriptHookAllowed 0
	sv_endpointprivacy true

	# RCON password
	# rcon_password CHANGEME

	# License key
	sv_licenseKey "{{ .LicenseKey }}"

	{{ .Database.ConnectionString }}

	# Steam Web API key
	set steam_webApiKey none

	exec ./resources.cfg
`)))

// Settings are the values rendered into server.cfg.
type Settings struct {
	Name       string
	Port       int
	LicenseKey string
	Database   database.Config
}

// Writer writes configuration files into a server directory.
type Writer struct {
	dir string
}

// Option configures a Writer.
type Option func(*Writer)

// WithDir sets the server directory (defaults to the working directory).
func WithDir(dir string) Option {
	return func(w *Writer) {
		if dir != "" {
			w.dir = dir
		}
	}
}

// New creates a Writer for the working directory.
func New(opts ...Option) *Writer {
	w := &Writer{dir: "."}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// RenderServerConfig returns the server.cfg contents for s.
func RenderServerConfig(s Settings) ([]byte, error) {
	var buf bytes.Buffer
	if err := serverConfigTemplate.Execute(&buf, s); err != nil {
		return nil, fmt.Errorf("render %s: %w", ServerConfigFilename, err)
	}

	return buf.Bytes(), nil
}

// RenderResourcesConfig returns the default resources.cfg contents.
func RenderResourcesConfig() []byte {
	var buf bytes.Buffer

	buf.WriteString("# Resources")

	for _, name := range DefaultResources {
		buf.WriteString("\nensure ")
		buf.WriteString(name)
	}

	return buf.Bytes()
}

// WriteServerConfig renders and writes server.cfg, replacing any existing file.
func (w *Writer) WriteServerConfig(ctx context.Context, s Settings) error {
	data, err := RenderServerConfig(s)
	if err != nil {
		return err
	}

	logger.Infof(ctx, "Creating %s", ServerConfigFilename)

	if s.Database.IsUnset() {
		logger.Warn(ctx, "Database credentials are not set, the MySQL connection string is commented out")
	}

	return writeAtomic(filepath.Join(w.dir, ServerConfigFilename), data)
}

// WriteResourcesConfig creates resources.cfg when it does not exist yet.
// It reports whether the file was created.
func (w *Writer) WriteResourcesConfig(ctx context.Context) (bool, error) {
	path := filepath.Join(w.dir, ResourcesConfigFilename)

	_, err := os.Stat(path)
	switch {
	case err == nil:
		logger.Infof(ctx, "%s already exists", ResourcesConfigFilename)
		return false, nil
	case !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("stat %s: %w", path, err)
	}

	logger.Infof(ctx, "Creating %s", ResourcesConfigFilename)

	if err = writeAtomic(path, RenderResourcesConfig()); err != nil {
		return false, err
	}

	return true, nil
}

// writeAtomic swaps data into path and verifies it against its SHA-256 sum.
func writeAtomic(path string, data []byte) error {
	sum := sha256.Sum256(data)

	// go-update replaces an existing target, so make sure there is one.
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		//nolint:gosec // Path is inside the server directory.
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, DefaultFileMode)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}

		_ = file.Close()
	}

	options := goupdate.Options{
		TargetPath: path,
		TargetMode: DefaultFileMode,
		Checksum:   sum[:],
		Hash:       crypto.SHA256,
	}

	if err := goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	oldPath := path + ".old"
	if _, err := os.Stat(oldPath); err == nil {
		_ = os.Remove(oldPath)
	}

	return nil
}
