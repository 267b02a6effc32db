package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/dirdoc/dirdoc/pkg/docstore"
)

// ConfigFileName is the default config file name, looked up in the
// working directory.
const ConfigFileName = ".dirdoc.json"

var (
	errConfigFileNotFound = errors.New("config file not found")
	errConfigInvalid      = errors.New("invalid config file")
)

// Config holds all configuration options. The file format is JWCC
// (JSON with comments and trailing commas).
type Config struct {
	// Root is the database root directory. Default ".dirdoc".
	Root string `json:"root"`

	// IDMode is "sequential" or "random". Default "sequential".
	IDMode string `json:"id_mode,omitempty"`

	// Qualify is "none", "partial" or "full". Default "none".
	Qualify string `json:"qualify,omitempty"`

	// IDField, CreatedField and UpdatedField override the base names of
	// the reserved fields.
	IDField      string `json:"id_field,omitempty"`
	CreatedField string `json:"created_field,omitempty"`
	UpdatedField string `json:"updated_field,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Root: ".dirdoc",
	}
}

// LoadConfig loads configuration with the following precedence (highest wins):
//  1. Defaults
//  2. Project config file (.dirdoc.json in workDir, if present), or the
//     explicit file named by configPath
//  3. CLI overrides (non-empty fields of overrides)
func LoadConfig(workDir, configPath string, overrides Config) (Config, error) {
	cfg := DefaultConfig()

	cfgFile := filepath.Join(workDir, ConfigFileName)
	mustExist := false

	if configPath != "" {
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true
	}

	fileCfg, loaded, err := loadConfigFile(cfgFile)
	if err != nil {
		return Config{}, err
	}

	if mustExist && !loaded {
		return Config{}, fmt.Errorf("%w: %s", errConfigFileNotFound, configPath)
	}

	if loaded {
		cfg = mergeConfig(cfg, fileCfg)
	}

	cfg = mergeConfig(cfg, overrides)

	if cfg.Root == "" {
		return Config{}, fmt.Errorf("%w: root cannot be empty", errConfigInvalid)
	}

	return cfg, nil
}

// loadConfigFile parses one config file. Returns loaded=false when the
// file does not exist.
func loadConfigFile(path string) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("read config %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %v", errConfigInvalid, path, err)
	}

	var cfg Config

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %v", errConfigInvalid, path, err)
	}

	return cfg, true, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.Root != "" {
		base.Root = overlay.Root
	}

	if overlay.IDMode != "" {
		base.IDMode = overlay.IDMode
	}

	if overlay.Qualify != "" {
		base.Qualify = overlay.Qualify
	}

	if overlay.IDField != "" {
		base.IDField = overlay.IDField
	}

	if overlay.CreatedField != "" {
		base.CreatedField = overlay.CreatedField
	}

	if overlay.UpdatedField != "" {
		base.UpdatedField = overlay.UpdatedField
	}

	return base
}

// openStore opens the document store described by cfg, with the root
// resolved against workDir.
func openStore(cfg Config, workDir string) (*docstore.DB, error) {
	root := cfg.Root
	if !filepath.IsAbs(root) {
		root = filepath.Join(workDir, root)
	}

	return docstore.Open(docstore.Config{
		Root:   root,
		IDMode: docstore.IDMode(cfg.IDMode),
		Keywords: docstore.KeywordConfig{
			IDName:      cfg.IDField,
			CreatedName: cfg.CreatedField,
			UpdatedName: cfg.UpdatedField,
			Qualify:     docstore.QualifyMode(cfg.Qualify),
		},
	})
}
