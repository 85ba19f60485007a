package mermaid

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultTheme is passed to mmdc when a request does not name a theme.
const DefaultTheme = "default"

// DefaultTimeout bounds a single mmdc invocation. Rendering spins up a
// headless browser, so the bound is generous; it exists to reclaim the
// request when that browser wedges.
const DefaultTimeout = time.Minute

const pngExt = ".png"

// Request carries the inputs for a single diagram render.
type Request struct {
	// Code is the Mermaid diagram source, e.g. "graph TD; A-->B". Required.
	Code string

	// Theme selects a Mermaid theme: "default", "forest", "dark" or
	// "neutral". Empty means DefaultTheme.
	Theme string

	// BackgroundColor sets the image background, as a named color
	// ("white", "transparent") or a hex value ("#F0F0F0"). Empty leaves
	// mmdc's own default.
	BackgroundColor string
}

// Image is a rendered diagram held in memory, ready to be streamed to a
// client that never touches the server's filesystem.
type Image struct {
	// Data is the encoded PNG.
	Data []byte

	// MIMEType is always "image/png" for mmdc output.
	MIMEType string

	// Width and Height are the decoded pixel dimensions. Both are zero if
	// the output could not be decoded as a PNG; Data is still returned.
	Width  int
	Height int
}

// Renderer executes mmdc to turn Mermaid source into PNG images. It is
// stateless apart from its configuration and safe for concurrent use; each
// render stages its own temporary files.
type Renderer struct {
	bin     string
	timeout time.Duration
	runner  runner
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithCommand overrides the mmdc binary name or path. An empty value keeps
// the default "mmdc", resolved on PATH.
func WithCommand(bin string) Option {
	return func(r *Renderer) {
		if bin != "" {
			r.bin = bin
		}
	}
}

// WithTimeout bounds each mmdc invocation. Zero or negative disables the
// renderer's own bound, leaving only the caller's context deadline.
func WithTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.timeout = d
	}
}

// New returns a Renderer that invokes "mmdc" from PATH with DefaultTimeout,
// adjusted by the given options.
func New(options ...Option) *Renderer {
	r := &Renderer{
		bin:     "mmdc",
		timeout: DefaultTimeout,
		runner:  execRunner{},
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// RenderFile renders the diagram into the given folder under the given file
// name and returns the absolute path of the written PNG.
//
// The folder must already exist; it is resolved to an absolute path and
// validated before anything is rendered, yielding a DestinationError when it
// is missing or not a directory. A ".png" extension is appended to name
// unless it already ends with one (case-insensitive). An existing file at
// the destination is overwritten.
//
// If mmdc fails after writing a partial file, the partial file is left in
// place: the destination belongs to the caller, and the remains are often
// useful when diagnosing what the tool produced.
func (r *Renderer) RenderFile(ctx context.Context, req Request, folder, name string) (string, error) {
	dir, err := resolveFolder(folder)
	if err != nil {
		return "", err
	}
	outputPath := filepath.Join(dir, normalizeName(name))

	if err := r.renderTo(ctx, req, outputPath); err != nil {
		return "", err
	}

	log.WithField("output", outputPath).Debug("diagram written")
	return outputPath, nil
}

// RenderImage renders the diagram into a temporary file, reads the PNG back
// into memory, and removes the file. Nothing remains on disk afterwards,
// success or failure.
//
// The pixel dimensions are decoded for logging and returned on the Image.
// Output that does not decode as a PNG is logged as a warning and returned
// anyway; deciding what to do with it is the caller's business.
func (r *Renderer) RenderImage(ctx context.Context, req Request) (*Image, error) {
	outputPath, removeOutput, err := createTempFile("mermaid-*"+pngExt, nil)
	if err != nil {
		return nil, err
	}
	defer removeOutput()

	if err := r.renderTo(ctx, req, outputPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read rendered diagram: %w", err)
	}

	img := &Image{Data: data, MIMEType: "image/png"}
	if cfg, err := png.DecodeConfig(bytes.NewReader(data)); err == nil {
		img.Width = cfg.Width
		img.Height = cfg.Height
	} else {
		log.WithError(err).Warn("rendered output is not a decodable PNG")
	}

	log.WithFields(log.Fields{
		"bytes":  len(data),
		"width":  img.Width,
		"height": img.Height,
	}).Debug("diagram rendered to memory")
	return img, nil
}

// renderTo stages the diagram source in a temporary .mmd file and invokes
// mmdc against the given output path. The input file is removed before
// returning, whatever the outcome.
func (r *Renderer) renderTo(ctx context.Context, req Request, outputPath string) error {
	inputPath, removeInput, err := createTempFile("mermaid-*.mmd", []byte(req.Code))
	if err != nil {
		return err
	}
	defer removeInput()

	return r.invoke(ctx, inputPath, outputPath, req.Theme, req.BackgroundColor)
}

// invoke builds the mmdc command line, runs it, and classifies the outcome.
func (r *Renderer) invoke(ctx context.Context, inputPath, outputPath, theme, backgroundColor string) error {
	if theme == "" {
		theme = DefaultTheme
	}

	args := []string{"-i", inputPath, "-o", outputPath, "-t", theme}
	if backgroundColor != "" {
		args = append(args, "-b", backgroundColor)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	log.WithFields(log.Fields{
		"cmd":  r.bin,
		"args": strings.Join(args, " "),
	}).Debug("executing mmdc")

	res, err := r.runner.run(ctx, r.bin, args)
	stdout := string(res.stdout)
	stderr := string(res.stderr)

	if err != nil {
		switch {
		case errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist):
			return ErrMmdcNotFound
		case errors.Is(err, context.DeadlineExceeded):
			return fmt.Errorf("mmdc timed out after %s: %w", r.timeout, err)
		default:
			return fmt.Errorf("failed to run mmdc: %w", err)
		}
	}

	if res.exitCode != 0 {
		return &RenderError{
			Message:  fmt.Sprintf("mmdc failed to generate diagram (exit code %d)", res.exitCode),
			ExitCode: res.exitCode,
			Stdout:   stdout,
			Stderr:   stderr,
		}
	}

	if _, err := os.Stat(outputPath); err != nil {
		return &RenderError{
			Message: "mmdc exited successfully but produced no output file",
			Stdout:  stdout,
			Stderr:  stderr,
		}
	}

	// mmdc logs progress to stderr even when it succeeds.
	if stderr != "" {
		log.WithField("stderr", strings.TrimSpace(stderr)).Warn("mmdc reported warnings")
	}
	if stdout != "" {
		log.WithField("stdout", strings.TrimSpace(stdout)).Debug("mmdc output")
	}

	return nil
}

// resolveFolder turns the caller-supplied folder into an absolute path and
// verifies it is an existing directory.
func resolveFolder(folder string) (string, error) {
	dir, err := filepath.Abs(folder)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output directory: %w", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &DestinationError{Path: dir, Reason: "output directory does not exist"}
		}
		return "", fmt.Errorf("failed to access output directory: %w", err)
	}
	if !info.IsDir() {
		return "", &DestinationError{Path: dir, Reason: "output path is not a directory"}
	}

	return dir, nil
}

// normalizeName appends the .png extension unless the name already carries
// one in any letter case.
func normalizeName(name string) string {
	if strings.EqualFold(filepath.Ext(name), pngExt) {
		return name
	}
	return name + pngExt
}
