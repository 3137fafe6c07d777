package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-stl"
)

// tagsConfig holds parsed tags command configuration
type tagsConfig struct {
	format string
}

// tagsOutput represents JSON output for tags
type tagsOutput struct {
	Translate []string `json:"translate"`
	Parse     []string `json:"parse"`
}

func runTags(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseTagsFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFormat, err)
		return ExitCodeUsageError
	}

	registry := stl.DefaultRegistry(nil)
	output := tagsOutput{
		Translate: registry.TranslateNames(),
		Parse:     registry.ParseNames(),
	}

	if cfg.format == OutputFormatJSON {
		jsonBytes, _ := json.MarshalIndent(output, "", JSONIndent)
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}

	for _, name := range output.Translate {
		fmt.Fprintf(stdout, TagsTextFormat, stl.HandlerKindTranslate, name)
	}
	for _, name := range output.Parse {
		fmt.Fprintf(stdout, TagsTextFormat, stl.HandlerKindParse, name)
	}
	return ExitCodeSuccess
}

func parseTagsFlags(args []string) (*tagsConfig, error) {
	fs := flag.NewFlagSet(CmdNameTags, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &tagsConfig{}
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}
