package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/itsatony/go-stl"
	"gopkg.in/yaml.v3"
)

// versionConfig holds parsed version command configuration
type versionConfig struct {
	format     string
	configPath string
}

// versionInfo reports the build together with the engine settings a render
// would use.
type versionInfo struct {
	Version       string `json:"version"`
	Commit        string `json:"commit"`
	GoVersion     string `json:"go_version"`
	ElementPrefix string `json:"element_prefix"`
	MaxDepth      int    `json:"max_depth"`
	CacheEnabled  bool   `json:"cache_enabled"`
	ParseTags     int    `json:"parse_tags"`
	TranslateTags int    `json:"translate_tags"`
}

// buildManifest is the part of versions.yaml the CLI reads
type buildManifest struct {
	Project struct {
		Version string `yaml:"version"`
	} `yaml:"project"`
	Git struct {
		Commit string `yaml:"commit"`
	} `yaml:"git"`
}

// manifestSearchPaths are tried in order, relative to the working directory
var manifestSearchPaths = []string{"versions.yaml", "../versions.yaml", "../../versions.yaml"}

func runVersion(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseVersionFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFormat, err)
		return ExitCodeUsageError
	}

	engineCfg, err := loadEngineConfig(cfg.configPath)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgLoadConfigFailed, err)
		return ExitCodeInputError
	}

	info := describeEngine(engineCfg, stl.DefaultRegistry(nil))
	readManifest(info)

	if cfg.format == OutputFormatJSON {
		jsonBytes, _ := json.MarshalIndent(info, "", JSONIndent)
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}

	cache := VersionCacheDisabled
	if info.CacheEnabled {
		cache = VersionCacheEnabled
	}
	fmt.Fprintf(stdout, VersionTextTemplate,
		CLIProduct, info.Version, info.Commit, info.GoVersion,
		info.ElementPrefix, info.MaxDepth, cache, info.ParseTags, info.TranslateTags)
	return ExitCodeSuccess
}

func parseVersionFlags(args []string) (*versionConfig, error) {
	fs := flag.NewFlagSet(CmdNameVersion, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &versionConfig{}
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")
	fs.StringVar(&cfg.configPath, FlagConfig, "", "")
	fs.StringVar(&cfg.configPath, FlagConfigShort, "", "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

// describeEngine collects the settings an engine built from cfg would run with
func describeEngine(cfg *stl.Config, registry *stl.Registry) *versionInfo {
	return &versionInfo{
		Version:       VersionUnknown,
		Commit:        VersionUnknown,
		GoVersion:     runtime.Version(),
		ElementPrefix: cfg.ElementPrefix,
		MaxDepth:      cfg.MaxDepth,
		CacheEnabled:  cfg.Cache.Enabled,
		ParseTags:     len(registry.ParseNames()),
		TranslateTags: len(registry.TranslateNames()),
	}
}

// readManifest fills version and commit from the first readable versions.yaml
func readManifest(info *versionInfo) {
	for _, path := range manifestSearchPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var m buildManifest
		if err := yaml.Unmarshal(data, &m); err != nil {
			continue
		}

		if m.Project.Version != "" {
			info.Version = m.Project.Version
		}
		if m.Git.Commit != "" {
			info.Commit = m.Git.Commit
		}
		return
	}
}
