package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-stl"
)

// scanConfig holds parsed scan command configuration
type scanConfig struct {
	templatePath string
	configPath   string
	format       string
}

// scanOccurrence is the JSON form of one scanned occurrence
type scanOccurrence struct {
	Start      int               `json:"start"`
	End        int               `json:"end"`
	Name       string            `json:"name,omitempty"`
	Dynamic    bool              `json:"dynamic"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Raw        string            `json:"raw"`
	Error      string            `json:"error,omitempty"`
}

func runScan(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseScanFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	tmpl, err := loadTemplate(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	engineCfg, err := loadEngineConfig(cfg.configPath)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgLoadConfigFailed, err)
		return ExitCodeInputError
	}

	tokenizer := stl.NewHTMLTokenizer(engineCfg.ElementPrefix, nil)
	occurrences, err := tokenizer.Discover(tmpl.Text, false)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgScanFailed, err)
		return ExitCodeError
	}

	results := make([]scanOccurrence, 0, len(occurrences))
	for _, occ := range occurrences {
		results = append(results, describeOccurrence(occ))
	}

	if cfg.format == OutputFormatJSON {
		return outputScanJSON(results, stdout)
	}
	return outputScanText(tmpl.Name, results, stdout)
}

func parseScanFlags(args []string) (*scanConfig, error) {
	fs := flag.NewFlagSet(CmdNameScan, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &scanConfig{}
	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.configPath, FlagConfig, "", "")
	fs.StringVar(&cfg.configPath, FlagConfigShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.templatePath == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}
	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

func describeOccurrence(occ stl.Occurrence) scanOccurrence {
	result := scanOccurrence{Start: occ.Start, End: occ.End, Raw: occ.Raw}

	el, err := stl.BuildElement(occ.Raw, false)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Name = el.Name
	result.Dynamic = el.IsDynamic
	result.Attributes = el.Attributes
	return result
}

func outputScanText(name string, results []scanOccurrence, stdout io.Writer) int {
	for _, r := range results {
		name, mode := r.Name, ScanFlagStatic
		if r.Error != "" {
			name, mode = ScanLabelUnparsed, r.Error
		} else if r.Dynamic {
			mode = ScanFlagDynamic
		}
		fmt.Fprintf(stdout, ScanTextFormat, r.Start, r.End, name, mode)
	}
	fmt.Fprintf(stdout, ScanTextSummary, len(results), name)
	return ExitCodeSuccess
}

func outputScanJSON(results []scanOccurrence, stdout io.Writer) int {
	jsonBytes, _ := json.MarshalIndent(results, "", JSONIndent)
	fmt.Fprintln(stdout, string(jsonBytes))
	return ExitCodeSuccess
}
