package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/itsatony/go-stl"
	"go.uber.org/zap"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	templatePath string
	dataJSON     string
	dataFilePath string
	outputPath   string
	configPath   string
	verbose      bool
	siteID       int
	channelID    int
}

func runRender(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseRenderFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingTemplate, err)
		return ExitCodeUsageError
	}

	tmpl, err := loadTemplate(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	// Parse page data
	data, err := loadData(cfg.dataJSON, cfg.dataFilePath)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidJSON, err)
		return ExitCodeInputError
	}

	engineCfg, err := loadEngineConfig(cfg.configPath)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgLoadConfigFailed, err)
		return ExitCodeInputError
	}
	if cfg.verbose {
		engineCfg.LogLevel = LogLevelDebug
	}

	engine, logger, err := newEngine(engineCfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgEngineFailed, err)
		return ExitCodeError
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug(LogMsgRenderTemplate,
		zap.String(LogFieldTemplate, tmpl.Name),
		zap.Int(LogFieldSiteID, cfg.siteID),
		zap.Int(LogFieldChannelID, cfg.channelID),
		zap.Int(LogFieldBytes, len(tmpl.Text)),
	)

	page := stl.NewPageInfo(stl.PageIdentity{SiteID: cfg.siteID, ChannelID: cfg.channelID}, data)
	result := engine.Render(context.Background(), tmpl.Text, page, nil)

	if err := writeRendered(cfg.outputPath, result, stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}

	return ExitCodeSuccess
}

func parseRenderFlags(args []string) (*renderConfig, error) {
	fs := flag.NewFlagSet(CmdNameRender, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &renderConfig{}

	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.dataJSON, FlagData, "", "")
	fs.StringVar(&cfg.dataJSON, FlagDataShort, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFile, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFileShort, "", "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")
	fs.StringVar(&cfg.configPath, FlagConfig, "", "")
	fs.StringVar(&cfg.configPath, FlagConfigShort, "", "")
	fs.BoolVar(&cfg.verbose, FlagVerbose, false, "")
	fs.BoolVar(&cfg.verbose, FlagVerboseShort, false, "")
	fs.IntVar(&cfg.siteID, FlagSiteID, 0, "")
	fs.IntVar(&cfg.channelID, FlagChannel, 0, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Validation
	if cfg.templatePath == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}

	return cfg, nil
}

// loadEngineConfig reads the config file, or returns defaults when path is empty
func loadEngineConfig(path string) (*stl.Config, error) {
	if path == "" {
		return stl.DefaultConfig(), nil
	}
	return stl.LoadConfig(path)
}

// newEngine builds an engine with the default handlers, logging to w
func newEngine(cfg *stl.Config, w io.Writer) (*stl.Engine, *zap.Logger, error) {
	logger, err := cfg.Logger(w)
	if err != nil {
		return nil, nil, err
	}
	engine, err := stl.New(cfg.Options(logger)...)
	if err != nil {
		return nil, nil, err
	}
	return engine, logger, nil
}

func loadData(jsonStr, filePath string) (map[string]any, error) {
	var jsonData []byte

	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		jsonData = data
	} else if jsonStr != "" {
		jsonData = []byte(jsonStr)
	} else {
		// No data provided, return empty map
		return make(map[string]any), nil
	}

	var result map[string]any
	if err := json.Unmarshal(jsonData, &result); err != nil {
		return nil, err
	}

	return result, nil
}
