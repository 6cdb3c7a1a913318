// Package config resolves mdpipe settings with precedence
// defaults < config file < MDPIPE_* environment < command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/gaurav-prasanna/mdpipe/core/markdown"
)

// Option is one configuration key with its default and meaning.
type Option struct {
	Key     string
	Default any
	Comment string
}

// Options returns every configuration key with its default value.
func Options() []Option {
	return []Option{
		{Key: "log.level", Default: "info", Comment: "Log level: debug, info, warn, error"},

		{Key: "render.engine", Default: "dialect", Comment: "Markdown engine: dialect or commonmark"},
		{Key: "render.heading_class", Default: "scroll-mt-20", Comment: "Class placed on rendered headings"},
		{Key: "render.default_language", Default: "text", Comment: "Code block language when the fence has none"},
		{Key: "render.sanitize", Default: false, Comment: "Sanitize rendered HTML before output"},
		{Key: "render.front_matter", Default: true, Comment: "Split a leading YAML front matter block off local sources"},
		{Key: "render.pdf_font", Default: "", Comment: "UTF-8 TrueType font for PDF output; the built-in fonts cover Windows-1252 only"},

		{Key: "output.dir", Default: "", Comment: "Output directory; the working directory when empty"},

		{Key: "fetch.timeout", Default: "30s", Comment: "HTTP timeout per page"},
		{Key: "fetch.user_agent", Default: "mdpipe/1.0", Comment: "User-Agent sent with requests"},
		{Key: "fetch.keep_images", Default: false, Comment: "Keep <img> elements when extracting page content"},

		{Key: "crawl.max_pages", Default: 100, Comment: "Maximum pages discovered by convert --all"},
		{Key: "convert.concurrency", Default: 4, Comment: "Pages converted in parallel by convert --all"},

		{Key: "serve.addr", Default: ":8080", Comment: "Listen address of the preview server"},
		{Key: "serve.max_body_bytes", Default: 1 << 20, Comment: "Largest accepted request body"},

		{Key: "preview.style", Default: "dark", Comment: "Terminal preview style: dark, light, notty, ascii"},
		{Key: "preview.width", Default: 80, Comment: "Terminal preview word wrap"},
	}
}

func applyDefaults(v *viper.Viper) {
	for _, o := range Options() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load seeds v with defaults, reads the config file and enables MDPIPE_*
// environment overrides. When no file was set with SetConfigFile, a missing
// config.{yaml,toml,json} in the search path is not an error.
func Load(v *viper.Viper) error {
	explicit := v.ConfigFileUsed() != ""
	if !explicit {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "mdpipe"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "mdpipe"))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("mdpipe")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return nil
}

// Check validates the merged configuration and reports every problem at once.
func Check(v *viper.Viper) error {
	var errs []error

	if _, err := zapcore.ParseLevel(v.GetString("log.level")); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch strings.ToLower(strings.TrimSpace(v.GetString("render.engine"))) {
	case "dialect", "commonmark":
	default:
		errs = append(errs, fmt.Errorf("render.engine must be dialect or commonmark, got %q", v.GetString("render.engine")))
	}
	if v.GetDuration("fetch.timeout") <= 0 {
		errs = append(errs, errors.New("fetch.timeout must be a positive duration"))
	}
	for _, key := range []string{"crawl.max_pages", "convert.concurrency", "serve.max_body_bytes", "preview.width"} {
		if v.GetInt(key) <= 0 {
			errs = append(errs, fmt.Errorf("%s must be greater than 0", key))
		}
	}
	if strings.TrimSpace(v.GetString("serve.addr")) == "" {
		errs = append(errs, errors.New("serve.addr is required"))
	}

	return errors.Join(errs...)
}

// RenderOptions builds the dialect renderer options from v.
func RenderOptions(v *viper.Viper) markdown.Options {
	opts := markdown.DefaultOptions()
	if s := strings.TrimSpace(v.GetString("render.heading_class")); s != "" {
		opts.HeadingClass = s
	}
	if s := strings.TrimSpace(v.GetString("render.default_language")); s != "" {
		opts.DefaultLanguage = s
	}
	return opts
}

// Settings returns the effective value of every known key.
func Settings(v *viper.Viper) map[string]any {
	out := make(map[string]any, len(Options()))
	for _, o := range Options() {
		out[o.Key] = v.Get(o.Key)
	}
	return out
}
