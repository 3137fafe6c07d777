package main

// Command names
const (
	CmdNameRender  = "render"
	CmdNameScan    = "scan"
	CmdNameTags    = "tags"
	CmdNameVersion = "version"
	CmdNameHelp    = "help"
)

// Flag names - long form
const (
	FlagTemplate = "template"
	FlagData     = "data"
	FlagDataFile = "data-file"
	FlagOutput   = "output"
	FlagConfig   = "config"
	FlagVerbose  = "verbose"
	FlagFormat   = "format"
	FlagSiteID   = "site"
	FlagChannel  = "channel"
)

// Flag names - short form
const (
	FlagTemplateShort = "t"
	FlagDataShort     = "d"
	FlagDataFileShort = "f"
	FlagOutputShort   = "o"
	FlagConfigShort   = "c"
	FlagVerboseShort  = "v"
	FlagFormatShort   = "F"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess    = 0
	ExitCodeError      = 1
	ExitCodeUsageError = 2
	ExitCodeInputError = 4
)

// Input source indicators
const (
	InputSourceStdin  = "-"
	TemplateNameStdin = "<stdin>"
	UTF8BOM           = "\uFEFF"
)

// Log levels selected by flags
const (
	LogLevelDebug = "debug"
)

// Log messages and fields
const (
	LogMsgRenderTemplate = "rendering template"
	LogFieldTemplate     = "template"
	LogFieldSiteID       = "site_id"
	LogFieldChannelID    = "channel_id"
	LogFieldBytes        = "bytes"
)

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand    = "unknown command"
	ErrMsgMissingTemplate   = "template source required"
	ErrMsgInvalidJSON       = "invalid JSON data"
	ErrMsgReadFileFailed    = "failed to read file"
	ErrMsgWriteOutputFailed = "failed to write output"
	ErrMsgInvalidFormat     = "invalid output format"
	ErrMsgInvalidFlags      = "invalid flags"
	ErrMsgLoadConfigFailed  = "failed to load config"
	ErrMsgEngineFailed      = "failed to create engine"
	ErrMsgScanFailed        = "element scan failed"
)

// Help text templates
const (
	HelpMainUsage = `go-stl - STL element rendering CLI

Usage:
    stl <command> [options]

Commands:
    render      Render the STL elements of a template
    scan        List the STL element occurrences of a template
    tags        List the registered tags per tier
    version     Show version information
    help        Show help for a command

Use "stl help <command>" for more information about a command.`

	HelpRenderUsage = `Render the STL elements of a template

Usage:
    stl render [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -d, --data <json>       JSON page data string
    -f, --data-file <file>  JSON page data file
    -o, --output <file>     Output file (default: stdout)
    -c, --config <file>     YAML engine config file
    -v, --verbose           Log at debug level to stderr
    --site <id>             Site id of the page
    --channel <id>          Channel id of the page

Examples:
    stl render -t index.html -d '{"site": {"title": "Acme"}}'
    stl render -t index.html -f page.json -c stl.yaml
    cat index.html | stl render -t - -o out.html`

	HelpScanUsage = `List the STL element occurrences of a template

Usage:
    stl scan [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -c, --config <file>     YAML engine config file (element prefix)
    -F, --format <format>   Output format: text, json (default: text)

Examples:
    stl scan -t index.html
    stl scan -t index.html -F json`

	HelpTagsUsage = `List the registered tags per tier

Usage:
    stl tags [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpVersionUsage = `Show version information and the engine settings in effect

Usage:
    stl version [options]

Options:
    -c, --config <file>     YAML engine config file
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    stl help [command]

Commands:
    render      Show help for render command
    scan        Show help for scan command
    tags        Show help for tags command
    version     Show help for version command`
)

// Version output format templates
const (
	VersionTextTemplate  = "%s %s (commit %s, %s)\nElement prefix: %q\nMax depth: %d\nCache: %s\nTags: %d parse, %d translate\n"
	VersionUnknown       = "unknown"
	VersionCacheEnabled  = "enabled"
	VersionCacheDisabled = "disabled"
)

// Scan output format templates
const (
	ScanTextFormat    = "%d-%d\t%s\t%s\n"
	ScanTextSummary   = "%d occurrence(s) in %s\n"
	ScanFlagDynamic   = "dynamic"
	ScanFlagStatic    = "static"
	ScanLabelUnparsed = "!unparsed"
)

// Tags output format templates
const (
	TagsTextFormat = "%-10s %s\n"
)

// CLI metadata
const (
	CLIName    = "stl"
	CLIProduct = "go-stl"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	JSONIndent         = "  "
)
