package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/k0kubun/pp"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/ansimark"
	"pkt.systems/ansimark/internal/config"
	"pkt.systems/ansimark/internal/logger"
	"pkt.systems/version"
)

func init() {
	version.SetDefaultModule("pkt.systems/ansimark")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	ansi       string
	xterm      string
	mxp        bool
	codesPath  string
	encode     bool
	dump       bool
	stats      bool
	width      int
	configPath string
	logLevel   string
	outPath    string
	showVer    bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	flags := pflag.NewFlagSet("ansimark", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&opts.ansi, "ansi", "", "ANSI color output: auto|on|off (default auto)")
	flags.StringVar(&opts.xterm, "xterm", "", "256-color codes: auto|on|off (default auto)")
	flags.BoolVar(&opts.mxp, "mxp", false, "Emit MXP markup for html tags")
	flags.StringVar(&opts.codesPath, "codes", "", "Legacy code stream file; inputs are then plain text")
	flags.BoolVar(&opts.encode, "encode", false, "Print canonical tagged text instead of rendering")
	flags.BoolVar(&opts.dump, "dump", false, "Pretty-print parsed nodes and segments")
	flags.BoolVar(&opts.stats, "stats", false, "Print node and size statistics to stderr")
	flags.IntVarP(&opts.width, "width", "w", -1, "Wrap ANSI output at this width (0 disables)")
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: trace|debug|info|warn|error")
	flags.StringVarP(&opts.outPath, "output", "o", "", "Output file instead of stdout")
	flags.BoolVar(&opts.showVer, "version", false, "Print version and exit")
	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: ansimark [flags] [inputs...]\n")
		fmt.Fprintln(stderr, "\nIf no input is provided, tagged text is read from stdin.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}
	if opts.showVer {
		fmt.Fprintln(stdout, version.Module(), version.Current())
		return 0
	}

	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(normalizePath(opts.configPath))
		if err != nil {
			fmt.Fprintf(stderr, "load config: %v\n", err)
			return 2
		}
		cfg = loaded
	}

	log, err := newLogger(opts, cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "invalid --log-level %q: %v\n", opts.logLevel, err)
		return 2
	}

	if target, ok := singleRemote(flags.Args()); ok && opts.codesPath == "" && !opts.encode && !opts.dump && !opts.stats {
		return renderRemote(target, opts, cfg, log, stdout, stderr)
	}

	reader, closer, err := openInputs(flags.Args(), stdin, log)
	if err != nil {
		log.Error(err, "open input")
		fmt.Fprintf(stderr, "open input: %v\n", err)
		return 1
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	src, err := io.ReadAll(reader)
	if err != nil {
		fmt.Fprintf(stderr, "read input: %v\n", err)
		return 1
	}
	log.Debug("input read", "bytes", len(src))

	doc, err := buildDocument(src, opts.codesPath, cfg)
	if err != nil {
		log.Error(err, "build document")
		fmt.Fprintf(stderr, "parse: %v\n", err)
		return 1
	}
	log.Debug("document parsed", "nodes", len(doc.Nodes()), "runes", doc.Len())

	writer, closeOut, err := resolveOutput(opts.outPath, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "open output: %v\n", err)
		return 1
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	if opts.dump {
		pp.ColoringEnabled = isTerminal(writer)
		if _, err := pp.Fprintln(writer, doc.Nodes(), doc.Segments()); err != nil {
			fmt.Fprintf(stderr, "write: %v\n", err)
			return 1
		}
		return 0
	}

	var out string
	if opts.encode {
		out = doc.Encode()
	} else {
		settings, err := resolveRenderSettings(opts, cfg, writer, log)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return 2
		}
		out = doc.RenderCaps(settings.caps, settings.opts...)
		if settings.width > 0 {
			out = ansimark.Wrap(out, settings.width)
		}
	}
	if _, err := io.WriteString(writer, out); err != nil {
		log.Error(err, "write output")
		fmt.Fprintf(stderr, "write: %v\n", err)
		return 1
	}
	log.Info("rendered", "nodes", len(doc.Nodes()), "bytes_in", len(src), "bytes_out", len(out))
	if opts.stats {
		fmt.Fprintf(stderr, "%d nodes, %s in, %s out, %d columns widest\n",
			len(doc.Nodes()),
			humanize.Bytes(uint64(len(src))),
			humanize.Bytes(uint64(len(out))),
			widestLine(out))
	}
	return 0
}

// singleRemote reports whether args name exactly one http(s) document.
func singleRemote(args []string) (string, bool) {
	if len(args) != 1 {
		return "", false
	}
	raw := strings.TrimSpace(args[0])
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return raw, true
	}
	return "", false
}

// renderRemote streams a single remote document through ansimark.HTTPRender.
func renderRemote(target string, opts options, cfg *config.Config, log *logger.Logger, stdout, stderr io.Writer) int {
	writer, closeOut, err := resolveOutput(opts.outPath, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "open output: %v\n", err)
		return 1
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}
	settings, err := resolveRenderSettings(opts, cfg, writer, log)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}
	err = ansimark.HTTPRender(context.Background(), ansimark.HTTPRenderRequest{
		URL:     target,
		Writer:  writer,
		Caps:    settings.caps,
		Width:   settings.width,
		Options: settings.opts,
	})
	if err != nil {
		log.Error(err, "render remote")
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	log.Info("rendered", "url", target)
	return 0
}

type renderSettings struct {
	caps  ansimark.Capabilities
	opts  []ansimark.RenderOption
	width int
}

func resolveRenderSettings(opts options, cfg *config.Config, writer io.Writer, log *logger.Logger) (renderSettings, error) {
	caps, err := resolveCapabilities(opts, cfg, isTerminal(writer))
	if err != nil {
		return renderSettings{}, err
	}
	colors, err := cfg.PaletteColors()
	if err != nil {
		return renderSettings{}, fmt.Errorf("load config: %w", err)
	}
	pal := ansimark.NewMapPalette(colors, ansimark.DefaultPalette())
	width := opts.width
	if width < 0 {
		width = cfg.Render.Width
	}
	if width > 0 && caps.MXP {
		log.Warn("width ignored with mxp output", "width", width)
		width = 0
	}
	log.Debug("rendering", "ansi", caps.ANSI, "xterm", caps.Xterm, "mxp", caps.MXP, "width", width)
	return renderSettings{caps: caps, opts: []ansimark.RenderOption{ansimark.WithPalette(pal)}, width: width}, nil
}

func newLogger(opts options, cfg *config.Config, stderr io.Writer) (*logger.Logger, error) {
	level := opts.logLevel
	if level == "" {
		level = cfg.Log.Level
	}
	human := isTerminal(stderr)
	if cfg.Log.Human != nil {
		human = *cfg.Log.Human
	}
	return logger.New(logger.Options{Level: level, HumanReadable: human, Writer: stderr})
}

func buildDocument(src []byte, codesPath string, cfg *config.Config) (*ansimark.Document, error) {
	if codesPath == "" {
		return ansimark.ParseBytes(src)
	}
	codes, err := os.ReadFile(normalizePath(codesPath))
	if err != nil {
		return nil, err
	}
	if err := ansimark.ValidateInput(src); err != nil {
		return nil, err
	}
	var legacyOpts []ansimark.LegacyOption
	for code, spec := range cfg.LegacyCodes() {
		legacyOpts = append(legacyOpts, ansimark.WithLegacyCode(code, spec))
	}
	return ansimark.FromCodes(string(src), lineBreaksToDefault(string(codes)), legacyOpts...)
}

// lineBreaksToDefault lets code files keep the line layout of their text.
func lineBreaksToDefault(codes string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return ansimark.LegacyDefault
		}
		return r
	}, codes)
}

func resolveCapabilities(opts options, cfg *config.Config, tty bool) (ansimark.Capabilities, error) {
	detected := ansimark.DetectCapabilities(tty)
	ansiMode := firstNonEmpty(opts.ansi, cfg.Render.ANSI)
	xtermMode := firstNonEmpty(opts.xterm, cfg.Render.Xterm)
	ansi, err := resolveToggle(ansiMode, detected.ANSI)
	if err != nil {
		return ansimark.Capabilities{}, fmt.Errorf("invalid --ansi %q: %w", ansiMode, err)
	}
	xterm, err := resolveToggle(xtermMode, detected.Xterm)
	if err != nil {
		return ansimark.Capabilities{}, fmt.Errorf("invalid --xterm %q: %w", xtermMode, err)
	}
	return ansimark.Capabilities{ANSI: ansi, Xterm: xterm, MXP: opts.mxp || cfg.Render.MXP}, nil
}

func resolveToggle(mode string, auto bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return auto, nil
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected auto|on|off")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func widestLine(s string) int {
	widest := 0
	for _, line := range strings.Split(s, "\n") {
		if w := ansimark.PrintableWidth(line); w > widest {
			widest = w
		}
	}
	return widest
}

type inputSource struct {
	name string
	open func() (io.Reader, io.Closer, error)
}

type multiInputReader struct {
	sources   []inputSource
	log       *logger.Logger
	idx       int
	cur       io.Reader
	curCloser io.Closer
	closed    bool
}

func (m *multiInputReader) Read(p []byte) (int, error) {
	for {
		if m.closed {
			return 0, io.EOF
		}
		if m.cur == nil {
			if m.idx >= len(m.sources) {
				m.closed = true
				return 0, io.EOF
			}
			src := m.sources[m.idx]
			srcLog := m.log.WithFields(map[string]any{"input": src.name})
			reader, closer, err := src.open()
			if err != nil {
				srcLog.Error(err, "open input")
				return 0, err
			}
			srcLog.Debug("input opened")
			m.cur = reader
			m.curCloser = closer
			m.idx++
		}
		n, err := m.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			if m.curCloser != nil {
				_ = m.curCloser.Close()
			}
			m.cur = nil
			m.curCloser = nil
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}

func (m *multiInputReader) Close() error {
	m.closed = true
	if m.curCloser != nil {
		return m.curCloser.Close()
	}
	return nil
}

func openInputs(args []string, stdin io.Reader, log *logger.Logger) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return stdin, nil, nil
	}
	sources := make([]inputSource, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(raw)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
	}
	m := &multiInputReader{sources: sources, log: log}
	return m, m, nil
}

func makeInputSource(raw string) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return inputSource{name: raw, open: func() (io.Reader, io.Closer, error) {
				return openURL(raw)
			}}, nil
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return inputSource{name: path, open: func() (io.Reader, io.Closer, error) {
				return openFile(path)
			}}, nil
		}
	}
	return inputSource{name: raw, open: func() (io.Reader, io.Closer, error) {
		return openFile(raw)
	}}, nil
}

func openURL(raw string) (io.Reader, io.Closer, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, raw, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("http %s: %s", raw, resp.Status)
	}
	return resp.Body, resp.Body, nil
}

func openFile(path string) (io.Reader, io.Closer, error) {
	f, err := os.Open(normalizePath(path))
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func resolveOutput(path string, stdout io.Writer) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
