package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// inputPlaceholder marks where the document path goes in a configured
// command line. Without it the path is appended as the last argument.
const inputPlaceholder = "{input}"

// CommandSource runs an external OCR command per document and captures
// its stdout as the document text. Example spec: "tesseract {input} stdout".
type CommandSource struct {
	name string
	args []string
}

// NewCommandSource parses a whitespace-separated command spec.
func NewCommandSource(spec string) (*CommandSource, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty ocr command")
	}
	return &CommandSource{name: fields[0], args: fields[1:]}, nil
}

// Text runs the command against path. The command is given as long as it
// needs; a hung OCR tool blocks the run rather than truncating a page.
func (s *CommandSource) Text(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("checking %s: %w", path, err)
	}

	args := make([]string, 0, len(s.args)+1)
	replaced := false
	for _, arg := range s.args {
		if strings.Contains(arg, inputPlaceholder) {
			arg = strings.ReplaceAll(arg, inputPlaceholder, path)
			replaced = true
		}
		args = append(args, arg)
	}
	if !replaced {
		args = append(args, path)
	}

	cmd := exec.CommandContext(ctx, s.name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	if err := cmd.Run(); err != nil {
		stderr := strings.TrimSpace(errb.String())
		if len(stderr) > 512 {
			stderr = stderr[:512]
		}
		return "", fmt.Errorf("running %s on %s: %w (%s)", s.name, path, err, stderr)
	}
	return out.String(), nil
}
