package types

// Config holds backend selection and parameters for opening the local
// persistence adapter plus the optional remote store.
type Config struct {
	Backend   string `json:"backend" yaml:"backend"`
	DataDir   string `json:"data_dir" yaml:"data_dir"`
	RemoteDSN string `json:"remote_dsn" yaml:"remote_dsn"`
}

// Supported local backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendFile:   true,
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure. An empty RemoteDSN is valid and means
// local-only operation.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}
