package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Kernel   KernelConfig   `mapstructure:"kernel"`
	Parallel ParallelConfig `mapstructure:"parallel"`
	LogLevel string         `mapstructure:"log_level"`
}

type KernelConfig struct {
	Backend     string `mapstructure:"backend"`
	LibraryPath string `mapstructure:"library_path"`
}

type ParallelConfig struct {
	Workers    int  `mapstructure:"workers"`
	Sequential bool `mapstructure:"sequential"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		Kernel: KernelConfig{
			Backend:     BackendGoPure,
			LibraryPath: "",
		},
		Parallel: ParallelConfig{
			Workers:    runtime.NumCPU(),
			Sequential: false,
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("kernel-backend", defaults.Kernel.Backend, "Kernel backend (gopure|openblas|netlib)")
	fs.String("kernel-library-path", defaults.Kernel.LibraryPath, "Path to BLAS/LAPACK shared library")
	fs.String("blas-lib", defaults.Kernel.LibraryPath, "Path to BLAS/LAPACK shared library (alias for --kernel-library-path)")
	fs.Int("parallel-workers", defaults.Parallel.Workers, "Worker goroutine ceiling for parallel loops")
	fs.Bool("parallel-sequential", defaults.Parallel.Sequential, "Disable parallel loop execution")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix("BLASBRIDGE")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	if err := v.BindEnv("kernel.library_path", "BLASBRIDGE_BLAS_LIB", "BLAS_LIBRARY_PATH"); err != nil {
		return Config{}, fmt.Errorf("bind blas env vars: %w", err)
	}
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("blasbridge")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	backend, err := NormalizeBackend(cfg.Kernel.Backend)
	if err != nil {
		return Config{}, err
	}
	cfg.Kernel.Backend = backend

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("kernel.backend", c.Kernel.Backend)
	v.SetDefault("kernel.library_path", c.Kernel.LibraryPath)
	v.SetDefault("parallel.workers", c.Parallel.Workers)
	v.SetDefault("parallel.sequential", c.Parallel.Sequential)
	v.SetDefault("log_level", c.LogLevel)
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	bindings := []struct {
		key  string
		flag string
	}{
		{"kernel.backend", "kernel-backend"},
		{"kernel.library_path", "kernel-library-path"},
		{"parallel.workers", "parallel-workers"},
		{"parallel.sequential", "parallel-sequential"},
		{"log_level", "log-level"},
	}

	for _, b := range bindings {
		f := fs.Lookup(b.flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(b.key, f); err != nil {
			return fmt.Errorf("bind --%s: %w", b.flag, err)
		}
	}

	// --blas-lib is an alias flag; it cannot share a viper binding with
	// --kernel-library-path, so an explicit value wins by direct set.
	if f := fs.Lookup("blas-lib"); f != nil && f.Changed {
		v.Set("kernel.library_path", f.Value.String())
	}

	return nil
}
