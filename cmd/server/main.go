package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/figurevault/figurevault/internal/server"
	"github.com/figurevault/figurevault/internal/server/blob"
	"github.com/figurevault/figurevault/internal/server/upload"
	"github.com/figurevault/figurevault/internal/utils"
	"github.com/figurevault/figurevault/internal/version"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "FIGUREVAULT"
	configFileName = "server"
)

var (
	home, _          = os.UserHomeDir()
	defaultConfigDir = filepath.Join(home, ".figurevault")
)

var rootCmd = &cobra.Command{
	Use:     "figurevault-server",
	Short:   "FigureVault upload server",
	Version: version.Detailed(),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		verbose, _ := cmd.Flags().GetBool("verbose")
		closeLog, err := setupLogger(cfg.LogDir, verbose)
		if err != nil {
			return err
		}
		defer closeLog()

		s, err := server.New(cfg)
		if err != nil {
			return err
		}
		defer slog.Info("Bye!")
		return s.Start(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().SortFlags = false
	rootCmd.Flags().StringP("bind", "b", server.DefaultAddr, "Address to bind the server")
	rootCmd.Flags().StringP("cert", "c", "", "Path to the TLS certificate file")
	rootCmd.Flags().StringP("key", "k", "", "Path to the TLS key file")
	rootCmd.Flags().String("log-dir", "", "Also write logs to files in this directory")
	rootCmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringP("config", "f", "", "Config file (yaml or json)")
}

func main() {
	slog.SetDefault(slog.New(stdoutHandler(slog.LevelInfo)))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func stdoutHandler(level slog.Level) slog.Handler {
	return tint.NewHandler(os.Stdout, &tint.Options{
		Level:      level,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
	})
}

// setupLogger installs the default logger. With a log dir, records go to both
// stdout and a per-run file.
func setupLogger(logDir string, verbose bool) (func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	if logDir == "" {
		slog.SetDefault(slog.New(stdoutHandler(level)))
		return func() {}, nil
	}

	file, err := utils.OpenLogFile(logDir, "server", time.Now())
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	fileHandler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(utils.NewTeeHandler(stdoutHandler(level), fileHandler)))
	return func() { file.Close() }, nil
}

func loadConfig(cmd *cobra.Command) (*server.Config, error) {
	v := viper.New()

	// .env is optional, real env vars win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	setDefaults(v)

	if cmd.Flag("config").Changed {
		configFilePath, _ := cmd.Flags().GetString("config")
		v.SetConfigFile(configFilePath)
	} else {
		v.AddConfigPath(defaultConfigDir)
		v.AddConfigPath(".")
		v.SetConfigName(configFileName)
	}

	if err := v.ReadInConfig(); err != nil {
		enoent := errors.Is(err, os.ErrNotExist)
		_, ok := err.(viper.ConfigFileNotFoundError)
		if !enoent && !ok {
			return nil, fmt.Errorf("config read '%s': %w", v.ConfigFileUsed(), err)
		}
	}

	v.BindPFlag("http.addr", cmd.Flags().Lookup("bind"))
	v.BindPFlag("http.cert_file", cmd.Flags().Lookup("cert"))
	v.BindPFlag("http.key_file", cmd.Flags().Lookup("key"))
	v.BindPFlag("log_dir", cmd.Flags().Lookup("log-dir"))

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg server.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("config loaded", "file", v.ConfigFileUsed(), "addr", cfg.HTTP.Addr, "provider", cfg.Blob.Provider)
	return &cfg, nil
}

// every key needs a default so AutomaticEnv can see it during Unmarshal
func setDefaults(v *viper.Viper) {
	uploadDefaults := upload.DefaultConfig()

	v.SetDefault("http.addr", server.DefaultAddr)
	v.SetDefault("http.cert_file", "")
	v.SetDefault("http.key_file", "")
	v.SetDefault("http.rate_limit", server.DefaultRateLimit)
	v.SetDefault("http.allow_origins", []string{})

	v.SetDefault("blob.provider", blob.ProviderS3)
	v.SetDefault("blob.region", "us-east-1")
	v.SetDefault("blob.access_key", "")
	v.SetDefault("blob.secret_key", "")
	v.SetDefault("blob.endpoint", "")
	v.SetDefault("blob.public_url", "")
	v.SetDefault("blob.use_accelerate", false)
	v.SetDefault("blob.upload_expiry", blob.DefaultUploadExpiry)

	v.SetDefault("upload.sign_chunk_size", uploadDefaults.SignChunkSize)
	v.SetDefault("upload.sign_chunk_delay", uploadDefaults.SignChunkDelay)
	v.SetDefault("upload.max_concurrency", uploadDefaults.MaxConcurrency)
	v.SetDefault("upload.max_multipart_memory", uploadDefaults.MaxMultipartMemory)

	v.SetDefault("log_dir", "")
}
