package app

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"walletlink/internal/chain"
	"walletlink/internal/domain"
	"walletlink/internal/protocol/deeplink"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home string       `yaml:"-"` // state directory, e.g. $HOME/.walletlink
	HTTP *http.Client `yaml:"-"` // optional; defaults to http.DefaultClient

	Peer     PeerConfig     `yaml:"peer"`
	Redirect RedirectConfig `yaml:"redirect"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
	Encoding EncodingConfig `yaml:"encoding"`
	KeyPair  KeyPairConfig  `yaml:"keypair"`
	Pending  PendingConfig  `yaml:"pending"`
	Solana   SolanaConfig   `yaml:"solana"`
	LogLevel string         `yaml:"log_level"`
}

type PeerConfig struct {
	BaseURL string         `yaml:"base_url"`
	AppURL  string         `yaml:"app_url"`
	Cluster domain.Cluster `yaml:"cluster"`
}

type RedirectConfig struct {
	Connect string `yaml:"connect"`
	Sign    string `yaml:"sign"`
	// Listen is an optional loopback address for http redirects.
	Listen string `yaml:"listen"`
}

type TimeoutConfig struct {
	Connect time.Duration `yaml:"connect"`
	Sign    time.Duration `yaml:"sign"`
}

type EncodingConfig struct {
	Connect domain.Encoding `yaml:"connect"`
	Sign    domain.Encoding `yaml:"sign"`
}

type KeyPairConfig struct {
	Backend string `yaml:"backend"` // file | sqlite
	Path    string `yaml:"path"`
	// Passphrase seals the keypair file. It never comes from the YAML file.
	Passphrase string `yaml:"-"`
}

type PendingConfig struct {
	Conflict string `yaml:"conflict"` // replace | reject
}

type SolanaConfig struct {
	RPCURL string `yaml:"rpc_url"`
}

// Keypair backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Conflict policies.
const (
	ConflictReplace = "replace"
	ConflictReject  = "reject"
)

// ConfigFile is the config file name inside Home.
const ConfigFile = "config.yaml"

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig(home string) Config {
	return Config{
		Home: home,
		Peer: PeerConfig{
			BaseURL: deeplink.DefaultBaseURL,
			AppURL:  "https://wene.app",
			Cluster: domain.ClusterDevnet,
		},
		Redirect: RedirectConfig{
			Connect: "wene://phantom/connect",
			Sign:    "wene://phantom/signTransaction",
		},
		Timeouts: TimeoutConfig{Connect: 30 * time.Second, Sign: 60 * time.Second},
		Encoding: EncodingConfig{Connect: domain.EncodingBase58, Sign: domain.EncodingBase58},
		KeyPair:  KeyPairConfig{Backend: BackendFile},
		Pending:  PendingConfig{Conflict: ConflictReplace},
		Solana:   SolanaConfig{RPCURL: chain.DefaultRPCURL},
		LogLevel: "info",
	}
}

// LoadConfig reads path over the defaults for home. A missing file is not
// an error. An empty path means <home>/config.yaml.
func LoadConfig(home, path string) (Config, error) {
	cfg := DefaultConfig(home)
	if path == "" {
		path = filepath.Join(home, ConfigFile)
	}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return cfg, cfg.Validate()
	case err != nil:
		return Config{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Home = home
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Home == "" {
		return errors.New("home directory is empty")
	}
	if !c.Peer.Cluster.Valid() {
		return fmt.Errorf("peer.cluster: unknown cluster %q", c.Peer.Cluster)
	}
	if err := absolute("peer.base_url", c.Peer.BaseURL, true); err != nil {
		return err
	}
	if err := absolute("peer.app_url", c.Peer.AppURL, true); err != nil {
		return err
	}
	if err := absolute("redirect.connect", c.Redirect.Connect, false); err != nil {
		return err
	}
	if err := absolute("redirect.sign", c.Redirect.Sign, false); err != nil {
		return err
	}
	if c.Timeouts.Connect < 0 || c.Timeouts.Sign < 0 {
		return errors.New("timeouts must not be negative")
	}
	for name, enc := range map[string]domain.Encoding{"encoding.connect": c.Encoding.Connect, "encoding.sign": c.Encoding.Sign} {
		if enc != "" && enc != domain.EncodingBase58 && enc != domain.EncodingBase64 {
			return fmt.Errorf("%s: unknown encoding %q", name, enc)
		}
	}
	switch c.KeyPair.Backend {
	case "", BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("keypair.backend: unknown backend %q", c.KeyPair.Backend)
	}
	switch c.Pending.Conflict {
	case "", ConflictReplace, ConflictReject:
	default:
		return fmt.Errorf("pending.conflict: unknown policy %q", c.Pending.Conflict)
	}
	return nil
}

// Save writes c to <home>/config.yaml.
func (c Config) Save() error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.Home, 0o700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.Home, ConfigFile), b, 0o600)
}

func absolute(field, raw string, needHost bool) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || (needHost && u.Host == "") {
		return fmt.Errorf("%s: %q is not an absolute URL", field, raw)
	}
	return nil
}
