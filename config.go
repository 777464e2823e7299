package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind            string
	envFile         string
	maxMessageSize  int64
	port            int
	prefix          string
	profile         bool
	scribblesRounds int
	sendBuffer      int
	staticDir       string
	tlsCert         string
	tlsKey          string
	verbose         bool
	version         bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.scribblesRounds < 1 {
		return fmt.Errorf("invalid scribbles round count (must be at least 1): %d", c.scribblesRounds)
	}
	if c.maxMessageSize < 1 {
		return fmt.Errorf("invalid max message size (must be positive): %d", c.maxMessageSize)
	}
	if c.sendBuffer < 1 {
		return fmt.Errorf("invalid send buffer (must be positive): %d", c.sendBuffer)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

// loadEnvFile reads KEY=value pairs into the environment without overriding
// anything already set. A missing default file is not an error.
func loadEnvFile(path string, explicit bool) error {
	err := godotenv.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("HAPPYHOUR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "happyhour",
		Short:         "Real-time multiplayer party games over websockets.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: HAPPYHOUR_BIND)")
	fs.StringVar(&cfg.envFile, "env-file", ".env", "file of KEY=value pairs to load into the environment (env: HAPPYHOUR_ENV_FILE)")
	fs.Int64Var(&cfg.maxMessageSize, "max-message-size", 64*1024, "largest websocket frame accepted from a client, in bytes (env: HAPPYHOUR_MAX_MESSAGE_SIZE)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: HAPPYHOUR_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: HAPPYHOUR_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: HAPPYHOUR_PROFILE)")
	fs.IntVar(&cfg.scribblesRounds, "scribbles-rounds", 3, "full drawer rotations per scribbles game (env: HAPPYHOUR_SCRIBBLES_ROUNDS)")
	fs.IntVar(&cfg.sendBuffer, "send-buffer", 64, "outbound frames queued per connection before it is dropped (env: HAPPYHOUR_SEND_BUFFER)")
	fs.StringVar(&cfg.staticDir, "static-dir", "static", "directory holding the browser client (env: HAPPYHOUR_STATIC_DIR)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: HAPPYHOUR_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: HAPPYHOUR_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: HAPPYHOUR_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: HAPPYHOUR_VERSION)")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		path, explicit := cfg.envFile, fs.Changed("env-file")
		if !explicit && v.IsSet("env-file") {
			path, explicit = v.GetString("env-file"), true
		}

		if err := loadEnvFile(path, explicit); err != nil {
			return fmt.Errorf("could not load %s: %w", path, err)
		}

		fs.VisitAll(func(f *pflag.Flag) {
			_ = v.BindPFlag(f.Name, f)
			_ = v.BindEnv(f.Name)
			if !f.Changed && v.IsSet(f.Name) {
				_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
			}
		})

		return nil
	}

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("happyhour v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
