package main

import (
	"io"
	"os"
	"strings"
)

// templateSource is a template loaded for render or scan. Name is the file
// path, or TemplateNameStdin when read from stdin.
type templateSource struct {
	Name string
	Text string
}

// loadTemplate reads a template from a file, or from stdin when path is "-".
// A leading UTF-8 byte order mark is dropped so scan offsets and rendered
// output line up with what editors show.
func loadTemplate(path string, stdin io.Reader) (*templateSource, error) {
	var (
		data []byte
		err  error
		name = path
	)
	if path == InputSourceStdin {
		name = TemplateNameStdin
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	return &templateSource{
		Name: name,
		Text: strings.TrimPrefix(string(data), UTF8BOM),
	}, nil
}

// writeRendered writes a rendered document to a file, or to stdout when path
// is "-".
func writeRendered(path, document string, stdout io.Writer) error {
	if path == FlagDefaultOutput {
		_, err := io.WriteString(stdout, document)
		return err
	}

	return os.WriteFile(path, []byte(document), FilePermissions)
}
