package entities

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StoreMySQL    = "mysql"
	StorePostgres = "postgres"

	defaultBatchSize     = 100
	defaultLogoCacheSize = 512
	defaultServerAddress = ":8080"
)

// Settings is the top-level configuration for opencatalogi.
type Settings struct {
	Store         StoreSettings    `yaml:"store"`
	Sources       SourcesSettings  `yaml:"sources"`
	Catalogs      CatalogsSettings `yaml:"catalogs"`
	BatchSize     int              `yaml:"batch_size"`
	LogoCacheSize int              `yaml:"logo_cache_size"`
	Server        ServerSettings   `yaml:"server"`
}

// StoreSettings selects the object store backend.
type StoreSettings struct {
	Driver string `yaml:"driver"` // "memory", "sqlite", "mysql", "postgres"
	DSN    string `yaml:"dsn"`
}

// SourceSettings describes one repository hosting source.
type SourceSettings struct {
	Token  string `yaml:"token"` // Inline, ${ENV_VAR}, or file path
	APIURL string `yaml:"api_url"`
	RawURL string `yaml:"raw_url"` // GitHub only
}

type SourcesSettings struct {
	GitHub SourceSettings `yaml:"github"`
	GitLab SourceSettings `yaml:"gitlab"`
}

// CatalogSettings describes an external catalog to import from.
type CatalogSettings struct {
	APIURL string `yaml:"api_url"`
}

type CatalogsSettings struct {
	DeveloperOverheid    CatalogSettings `yaml:"developer_overheid"`
	ComponentenCatalogus CatalogSettings `yaml:"componentencatalogus"`
}

type ServerSettings struct {
	Address string `yaml:"address"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
//
//nolint:gochecknoglobals // compiled once
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads and parses a configuration file, expanding environment
// variables, resolving token file paths and filling defaults.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	return ParseSettings(data)
}

// ParseSettings parses configuration bytes.
func ParseSettings(data []byte) (*Settings, error) {
	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.Sources.GitHub.Token = resolveToken(settings.Sources.GitHub.Token)
	settings.Sources.GitLab.Token = resolveToken(settings.Sources.GitLab.Token)
	settings.Store.DSN = expandEnv(settings.Store.DSN)

	settings.applyDefaults()
	if validateErr := settings.validate(); validateErr != nil {
		return nil, validateErr
	}

	return &settings, nil
}

// DefaultSettings returns the configuration used when no file is found.
func DefaultSettings() *Settings {
	settings := &Settings{}
	settings.Sources.GitHub.Token = resolveToken("${GITHUB_TOKEN}")
	settings.Sources.GitLab.Token = resolveToken("${GITLAB_TOKEN}")
	settings.applyDefaults()
	return settings
}

// configFileNames are tried in every search directory, in order.
//
//nolint:gochecknoglobals // fixed lookup table
var configFileNames = []string{
	".opencatalogi.yaml",
	".opencatalogi.yml",
	"opencatalogi.yaml",
	"opencatalogi.yml",
}

// configCandidates lists every path FindConfigFile looks at, working directory first.
func configCandidates() []string {
	dirs := []string{".", ".config", "configs"}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, home, filepath.Join(home, ".config"))
	}

	candidates := make([]string, 0, len(dirs)*len(configFileNames))
	for _, dir := range dirs {
		for _, name := range configFileNames {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}
	return candidates
}

// FindConfigFile returns the first existing configuration file.
func FindConfigFile() (string, error) {
	for _, candidate := range configCandidates() {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", errors.New("config file not found in default locations")
}

// expandEnv replaces ${VAR} placeholders with their environment values.
func expandEnv(raw string) string {
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		value, ok := os.LookupEnv(name)
		if !ok {
			logger.Debugf("Environment variable %q is not set", name)
		}
		return value
	})
}

// resolveToken expands raw and, when the result names a readable file,
// returns the trimmed file content instead.
func resolveToken(raw string) string {
	token := expandEnv(raw)
	if token == "" {
		return ""
	}
	info, err := os.Stat(token)
	if err != nil || info.IsDir() {
		return token
	}
	data, err := os.ReadFile(token)
	if err != nil {
		logger.Warnf("Failed to read token file %q: %v", token, err)
		return token
	}
	logger.Infof("Read token from file %q", token)
	return strings.TrimSpace(string(data))
}

func (s *Settings) applyDefaults() {
	if s.Store.Driver == "" {
		s.Store.Driver = StoreMemory
	}
	if s.Sources.GitHub.APIURL == "" {
		s.Sources.GitHub.APIURL = "https://api.github.com/"
	}
	if s.Sources.GitHub.RawURL == "" {
		s.Sources.GitHub.RawURL = "https://raw.githubusercontent.com"
	}
	if s.Sources.GitLab.APIURL == "" {
		s.Sources.GitLab.APIURL = "https://gitlab.com/api/v4"
	}
	if s.Catalogs.DeveloperOverheid.APIURL == "" {
		s.Catalogs.DeveloperOverheid.APIURL = "https://developer.overheid.nl/api"
	}
	if s.Catalogs.ComponentenCatalogus.APIURL == "" {
		s.Catalogs.ComponentenCatalogus.APIURL = "https://componentencatalogus.commonground.nl/api"
	}
	if s.BatchSize <= 0 {
		s.BatchSize = defaultBatchSize
	}
	if s.LogoCacheSize <= 0 {
		s.LogoCacheSize = defaultLogoCacheSize
	}
	if s.Server.Address == "" {
		s.Server.Address = defaultServerAddress
	}
}

// validate checks for required configuration values.
func (s *Settings) validate() error {
	switch s.Store.Driver {
	case StoreMemory:
	case StoreSQLite, StoreMySQL, StorePostgres:
		if s.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for driver %q", s.Store.Driver)
		}
	default:
		return fmt.Errorf("store.driver %q is not supported", s.Store.Driver)
	}

	urls := map[string]string{
		"sources.github.api_url":                s.Sources.GitHub.APIURL,
		"sources.github.raw_url":                s.Sources.GitHub.RawURL,
		"sources.gitlab.api_url":                s.Sources.GitLab.APIURL,
		"catalogs.developer_overheid.api_url":   s.Catalogs.DeveloperOverheid.APIURL,
		"catalogs.componentencatalogus.api_url": s.Catalogs.ComponentenCatalogus.APIURL,
	}
	for field, raw := range urls {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", field, raw)
		}
	}

	return nil
}
