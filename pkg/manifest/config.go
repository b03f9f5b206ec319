package manifest

// Config is the top-level webapp manifest.
type Config struct {
	Server Server `toml:"server"`
	Script Script `toml:"script"`
	Guard  Guard  `toml:"guard"`
	Log    Log    `toml:"log"`
}

// Server controls the HTTP listener and the single script endpoint.
type Server struct {
	Listen         string `toml:"listen"`
	Path           string `toml:"path"`
	ReadTimeoutMS  int    `toml:"read_timeout_ms"`
	WriteTimeoutMS int    `toml:"write_timeout_ms"`
	IdleTimeoutMS  int    `toml:"idle_timeout_ms"`
	TLSCert        string `toml:"tls_cert"`
	TLSKey         string `toml:"tls_key"`
}

// Script locates the watched script file. The file extension selects the engine.
type Script struct {
	Dir       string `toml:"dir"`
	File      string `toml:"file"`
	TimeoutMS int    `toml:"timeout_ms"` // 0 = unbounded
}

type Guard struct {
	Roles       []string `toml:"roles"`
	Users       []string `toml:"users"`
	RequireAuth bool     `toml:"require_auth"`
}

type Log struct {
	Dir string `toml:"dir"`
}

const (
	DefaultListen     = ":4000"
	DefaultPath       = "/webapp"
	DefaultScriptDir  = "conf/misc"
	DefaultScriptFile = "webapp.js"
	DefaultLogDir     = "log"
)

// Default returns a manifest usable without any file on disk.
func Default() Config {
	return Config{
		Server: Server{
			Listen:         DefaultListen,
			Path:           DefaultPath,
			ReadTimeoutMS:  15_000,
			WriteTimeoutMS: 30_000,
			IdleTimeoutMS:  60_000,
		},
		Script: Script{Dir: DefaultScriptDir, File: DefaultScriptFile},
		Log:    Log{Dir: DefaultLogDir},
	}
}
