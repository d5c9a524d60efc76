package harness

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultConfigPath is consulted when no --config flag is given. A missing
// file is not an error; the built-in defaults apply.
const DefaultConfigPath = "crosscheck.toml"

// FileConfig is the optional on-disk configuration. It relocates the fixed
// collaborator paths of the harness; it never changes the CLI contract.
type FileConfig struct {
	Compiler   string `toml:"compiler"`    // compiler binary, default ./target/debug/oak
	RefBackend string `toml:"ref_backend"` // reference backend identifier, default -c
	Artifact   string `toml:"artifact"`    // compiled artifact path, default ./main
	RefLabel   string `toml:"ref_label"`   // reference column label in diff tables, default C
}

// LoadConfig reads a FileConfig from path. If path is empty, DefaultConfigPath
// is tried instead, and its absence yields a zero FileConfig with no error. An
// explicitly named file must exist; a malformed file is always an error.
func LoadConfig(path string) (FileConfig, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("harness: load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("harness: config %s: unknown key %q", path, undecoded[0])
	}
	return cfg, nil
}

// Apply copies the file's non-empty fields onto cfg.
func (f FileConfig) Apply(cfg *Config) {
	if f.Compiler != "" {
		cfg.Compiler = f.Compiler
	}
	if f.RefBackend != "" {
		cfg.RefBackend = f.RefBackend
	}
	if f.Artifact != "" {
		cfg.Artifact = f.Artifact
	}
	if f.RefLabel != "" {
		cfg.RefLabel = f.RefLabel
	}
}
