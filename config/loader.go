package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/fgakit/logger"
)

// FileSystem is what the loader needs from the disk.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem reads the process's file system. LoadEnv does not
// overwrite variables that are already set.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver locates the config and .env files of a service.
type Resolver struct {
	FileSystem FileSystem
}

type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles keeps the explicit paths in opts and searches the standard
// locations for the others. A path is empty when nothing was found.
func (r *Resolver) ResolveFiles(service string, opts LoaderConfig) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = r.first(
			"./cmd/"+service+"/config.yml",
			"./config/"+service+".yml",
			"./config/config.yml",
			"./config.yml",
		)
	}
	if files.EnvFile == "" {
		files.EnvFile = r.first(
			"./.env."+service,
			"./cmd/"+service+"/.env",
			"./config/.env",
			"./.env",
		)
	}
	return files
}

func (r *Resolver) first(paths ...string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// LoaderConfig collects the LoaderOptions.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	// EnvRoots limits environment overrides to variables under these
	// top-level keys. Empty means every variable.
	EnvRoots []string
}

type LoaderOption func(*LoaderConfig)

func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvRoots only lets variables named after one of roots override the
// file: with root "fga", FGA_STORE_ID applies and NAME does not.
func WithEnvRoots(roots ...string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvRoots = append(lc.EnvRoots, roots...) }
}

// LoadConfig fills cfg for service from its config file, its .env file and
// the environment, in increasing precedence. A missing file is not an
// error.
func LoadConfig(service string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: RealFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}
	files := (&Resolver{FileSystem: lc.FileSystem}).ResolveFiles(service, lc)
	log := logger.Get("config")

	v := viper.New()
	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", files.ConfigFile, err)
		}
		log.Debug("Config file loaded", logger.Fields("path", files.ConfigFile))
	}
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			log.Warn("Env file not loaded", logger.Fields("path", files.EnvFile), logger.ErrorFields("config.env", err))
		}
	}

	bindEnv(v, os.Environ(), lc.EnvRoots)
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decode config for %s: %w", service, err)
	}
	return nil
}

// bindEnv sets every dotted key an environment variable could address, so
// FGA_CACHE_REDIS_ADDR reaches fga.cache.redis_addr. With roots, other
// variables are ignored.
func bindEnv(v *viper.Viper, environ, roots []string) {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" || !underRoot(key, roots) {
			continue
		}
		for _, k := range envKeyVariants(key) {
			v.Set(k, value)
		}
	}
}

func underRoot(envKey string, roots []string) bool {
	if len(roots) == 0 {
		return true
	}
	lower := strings.ToLower(envKey)
	for _, r := range roots {
		if lower == r || strings.HasPrefix(lower, r+"_") {
			return true
		}
	}
	return false
}

// envKeyVariants lists the keys an environment variable may stand for:
// the flat name, each split into up to three dotted levels whose last
// level keeps its underscores, and the fully dotted form.
//
//	FGA_BASE_URL -> fga_base_url, fga.base_url, fga.base.url, fga_base.url
func envKeyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")
	out := []string{lower}
	if len(parts) == 1 {
		return out
	}

	seen := map[string]bool{lower: true}
	add := func(levels ...[]string) {
		segs := make([]string, len(levels))
		for i, l := range levels {
			segs[i] = strings.Join(l, "_")
		}
		if k := strings.Join(segs, "."); !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for i := 1; i < len(parts); i++ {
		add(parts[:i], parts[i:])
		for j := i + 1; j < len(parts); j++ {
			add(parts[:i], parts[i:j], parts[j:])
		}
	}
	if k := strings.Join(parts, "."); !seen[k] {
		out = append(out, k)
	}
	return out
}
