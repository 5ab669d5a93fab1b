package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/fivem-installer/internal/domain/database"
	"github.com/oshokin/fivem-installer/internal/domain/platform"
)

// Config holds every answer the installation pipeline consumes.
type Config struct {
	// Platform is the target host tag (windows, ubuntu, debian).
	// Empty means "detect at runtime".
	Platform string `yaml:"platform"`
	// WorkDir is the directory the server is installed into.
	WorkDir string `yaml:"work_dir"`
	// Server holds the values written into server.cfg.
	Server Server `yaml:"server"`
	// TxAdmin delegates resource and server.cfg setup to txAdmin.
	TxAdmin bool `yaml:"txadmin"`
	// MySQL controls database installation and provisioning.
	MySQL MySQL `yaml:"mysql"`
	// Firewall selects the backend used to open the server port.
	Firewall string `yaml:"firewall"`
	// Sources lists the URLs artifacts are fetched from.
	Sources Sources `yaml:"sources"`
	// Timeout bounds listing page requests.
	Timeout time.Duration `yaml:"timeout"`
}

// Server describes the game server identity.
type Server struct {
	// Name is the sv_hostname value.
	Name string `yaml:"name"`
	// Port is used for both TCP and UDP endpoints and firewall rules.
	Port int `yaml:"port"`
	// LicenseKey is the Cfx.re server license key.
	LicenseKey string `yaml:"license_key"`
}

// MySQL describes the optional database setup.
type MySQL struct {
	// Setup installs (if missing) and starts a local MySQL server.
	Setup bool `yaml:"setup"`
	// CreateDatabase creates Database with a dedicated user.
	CreateDatabase bool `yaml:"create_database"`
	// Database holds the credentials written into server.cfg.
	Database database.Config `yaml:"database"`
	// AdminDSN, when set, provisions over SQL instead of the mysql CLI.
	AdminDSN string `yaml:"admin_dsn,omitempty"`
}

// Sources lists download locations. Defaults point at the official mirrors.
type Sources struct {
	// WindowsListing is the listing page of Windows builds.
	WindowsListing string `yaml:"windows_listing"`
	// LinuxListing is the listing page of Linux builds.
	LinuxListing string `yaml:"linux_listing"`
	// ServerData is the cfx-server-data archive URL.
	ServerData string `yaml:"server_data"`
	// ServerDataRoot is the top-level directory inside the ServerData archive.
	ServerDataRoot string `yaml:"server_data_root"`
	// Namespace is the folder under resources/ the bundle is merged into.
	Namespace string `yaml:"namespace"`
}

// Firewall backends.
const (
	FirewallAuto     = "auto"
	FirewallUFW      = "ufw"
	FirewallIPTables = "iptables"
	FirewallNetsh    = "netsh"
	FirewallNone     = "none"
)

const (
	// DefaultConfigFilename is the default filename for saved answers.
	DefaultConfigFilename = "fivem-installer.yaml"

	// DefaultLogFilename is the default installation log.
	DefaultLogFilename = "fivem-installer.log"

	// DefaultServerName is used when no server name is given.
	DefaultServerName = "My development server"

	// DefaultServerPort is the FiveM default port.
	DefaultServerPort = 30120

	// DefaultLicenseKey is written when no license key is given.
	DefaultLicenseKey = "changeme"

	// DefaultServerDataURL is the cfx-server-data master branch archive.
	DefaultServerDataURL = "https://github.com/citizenfx/cfx-server-data/archive/refs/heads/master.zip"

	// DefaultServerDataRoot is the top-level folder of DefaultServerDataURL.
	DefaultServerDataRoot = "cfx-server-data-master"

	// DefaultNamespace groups bundled resources apart from manually added ones.
	DefaultNamespace = "[FiveM]"

	// DefaultTimeout bounds listing page requests.
	DefaultTimeout = 30 * time.Second

	// DefaultFilePermissions is the default file permission for saved answers.
	DefaultFilePermissions = 0o600

	maxPort = 65535
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// ErrInvalidPort is returned for ports outside 1..65535.
	ErrInvalidPort = errors.New("server port must be between 1 and 65535")
	// ErrPartialDatabase is returned when only some credentials are set.
	ErrPartialDatabase = errors.New("database name, user and password must be set together")
	// ErrDatabaseRequired is returned when create_database has no credentials.
	ErrDatabaseRequired = errors.New("database credentials are required to create a database")
	// ErrUnknownFirewall is returned for unsupported firewall backends.
	ErrUnknownFirewall = errors.New("unknown firewall backend")
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := new(Config)
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}

	var cfg Config
	if err = yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes cfg to the provided path. The file may contain the database
// password, so it is only readable by the owner.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write answers: %w", err)
	}

	return nil
}

// Validate fills defaults and checks the answers for consistency.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	applyDefaults(cfg)

	if cfg.Platform != "" {
		tag, err := platform.Parse(cfg.Platform)
		if err != nil {
			return err
		}

		cfg.Platform = string(tag)
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > maxPort {
		return fmt.Errorf("port %d: %w", cfg.Server.Port, ErrInvalidPort)
	}

	if err := validateDatabase(&cfg.MySQL); err != nil {
		return err
	}

	switch cfg.Firewall {
	case FirewallAuto, FirewallUFW, FirewallIPTables, FirewallNetsh, FirewallNone:
	default:
		return fmt.Errorf("%q: %w", cfg.Firewall, ErrUnknownFirewall)
	}

	for _, raw := range []string{cfg.Sources.WindowsListing, cfg.Sources.LinuxListing, cfg.Sources.ServerData} {
		if _, err := url.ParseRequestURI(raw); err != nil {
			return fmt.Errorf("invalid source URL: %w", err)
		}
	}

	return nil
}

// Tag returns the configured platform tag, or "" when it must be detected.
func (c *Config) Tag() platform.Tag {
	return platform.Tag(c.Platform)
}

// ListingURL returns the listing page configured for the tag's family.
func (c *Config) ListingURL(tag platform.Tag) string {
	if tag.Family() == platform.FamilyWindows {
		return c.Sources.WindowsListing
	}

	return c.Sources.LinuxListing
}

func applyDefaults(cfg *Config) {
	if cfg.WorkDir == "" {
		cfg.WorkDir = "."
	}

	if cfg.Server.Name == "" {
		cfg.Server.Name = DefaultServerName
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}

	if cfg.Server.LicenseKey == "" {
		cfg.Server.LicenseKey = DefaultLicenseKey
	}

	if cfg.Firewall == "" {
		cfg.Firewall = FirewallAuto
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.Sources.WindowsListing == "" {
		cfg.Sources.WindowsListing = platform.WindowsListingURL
	}

	if cfg.Sources.LinuxListing == "" {
		cfg.Sources.LinuxListing = platform.LinuxListingURL
	}

	if cfg.Sources.ServerData == "" {
		cfg.Sources.ServerData = DefaultServerDataURL
	}

	if cfg.Sources.ServerDataRoot == "" {
		cfg.Sources.ServerDataRoot = DefaultServerDataRoot
	}

	if cfg.Sources.Namespace == "" {
		cfg.Sources.Namespace = DefaultNamespace
	}
}

func validateDatabase(m *MySQL) error {
	if m.Database.IsPartial() {
		return ErrPartialDatabase
	}

	if m.Database.IsEmpty() || m.Database.IsUnset() {
		m.Database = database.Unset()
	}

	if m.CreateDatabase && m.Database.IsUnset() {
		return ErrDatabaseRequired
	}

	// Creating a database needs a running server.
	if m.CreateDatabase {
		m.Setup = true
	}

	return nil
}
