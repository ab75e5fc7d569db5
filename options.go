package execmock

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode/utf8"
)

// DefaultMaxBuffer is the per-stream capture limit applied when none is given.
const DefaultMaxBuffer = 10 * 1024 * 1024

// Encoding controls how captured bytes become Result strings.
type Encoding string

const (
	// EncodingUTF8 replaces invalid UTF-8 sequences with U+FFFD.
	EncodingUTF8 Encoding = "utf8"
	// EncodingRaw keeps captured bytes untouched.
	EncodingRaw Encoding = "raw"
)

// Options holds per-call configuration derived from Option values.
type Options struct {
	MaxBuffer   int       // Per-stream byte limit; <= 0 restores the default
	PreferLocal bool      // Prepend LocalBinDir to PATH
	LocalBinDir string    // Relative to Dir (or the working directory)
	Encoding    Encoding  // Output decoding
	Input       string    // Written to stdin
	Stdin       io.Reader // Streamed to stdin; async calls only
	StripEOF    bool      // Strip one trailing newline from each stream
	Reject      bool      // Return failures as errors
	Env         []string  // Extra environment in "KEY=VALUE" format
	Dir         string    // Working directory
}

// DefaultOptions returns defaults.
func DefaultOptions() Options {
	return Options{
		MaxBuffer:   DefaultMaxBuffer,
		PreferLocal: true,
		LocalBinDir: "bin",
		Encoding:    EncodingUTF8,
		StripEOF:    true,
		Reject:      true,
	}
}

// Option defines a functional option for a single call.
type Option func(*Options)

// WithMaxBuffer sets the per-stream capture limit in bytes.
func WithMaxBuffer(n int) Option {
	return func(o *Options) {
		o.MaxBuffer = n
	}
}

// WithPreferLocal toggles prepending the local bin directory to PATH.
func WithPreferLocal(enabled bool) Option {
	return func(o *Options) {
		o.PreferLocal = enabled
	}
}

// WithLocalBinDir sets the directory prepended to PATH when PreferLocal is on.
func WithLocalBinDir(dir string) Option {
	return func(o *Options) {
		o.LocalBinDir = dir
	}
}

// WithEncoding sets the output decoding.
func WithEncoding(enc Encoding) Option {
	return func(o *Options) {
		o.Encoding = enc
	}
}

// WithInput writes s to the command's stdin.
func WithInput(s string) Option {
	return func(o *Options) {
		o.Input = s
	}
}

// WithStdin streams r to the command's stdin. Not supported by synchronous calls.
func WithStdin(r io.Reader) Option {
	return func(o *Options) {
		o.Stdin = r
	}
}

// WithStripEOF toggles stripping one trailing newline from stdout and stderr.
func WithStripEOF(enabled bool) Option {
	return func(o *Options) {
		o.StripEOF = enabled
	}
}

// WithReject controls whether failures are returned as errors. With false, the
// failure is stored in Result.Err and the call returns a nil error.
func WithReject(enabled bool) Option {
	return func(o *Options) {
		o.Reject = enabled
	}
}

// WithEnv adds environment variables in "KEY=VALUE" format.
func WithEnv(kv ...string) Option {
	return func(o *Options) {
		o.Env = append(o.Env, kv...)
	}
}

// WithDir sets the working directory.
func WithDir(dir string) Option {
	return func(o *Options) {
		o.Dir = dir
	}
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.MaxBuffer <= 0 {
		o.MaxBuffer = DefaultMaxBuffer
	}

	if o.Encoding == "" {
		o.Encoding = EncodingUTF8
	}

	return o
}

// localBin returns the directory PreferLocal prepends to PATH, or "" when disabled.
func (o Options) localBin() string {
	if !o.PreferLocal || o.LocalBinDir == "" {
		return ""
	}

	if filepath.IsAbs(o.LocalBinDir) {
		return o.LocalBinDir
	}

	base := o.Dir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return ""
		}

		base = wd
	}

	return filepath.Join(base, o.LocalBinDir)
}

// environ builds the environment handed to the mock process.
func (o Options) environ() []string {
	env := append(os.Environ(), o.Env...)

	bin := o.localBin()
	if bin == "" {
		return env
	}

	key := "PATH"
	current := ""

	for _, kv := range env {
		k, v, ok := strings.Cut(kv, "=")
		if ok && pathKey(k) {
			key, current = k, v
		}
	}

	path := bin
	if current != "" {
		path += string(os.PathListSeparator) + current
	}

	return append(env, key+"="+path)
}

func pathKey(k string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(k, "PATH")
	}

	return k == "PATH"
}

func (o Options) decode(b []byte) string {
	s := string(b)
	if o.Encoding == EncodingUTF8 && !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "\uFFFD")
	}

	if o.StripEOF {
		s = stripEOF(s)
	}

	return s
}

func stripEOF(s string) string {
	if strings.HasSuffix(s, "\r\n") {
		return s[:len(s)-2]
	}

	return strings.TrimSuffix(s, "\n")
}

// RunnerOption configures a Runner.
type RunnerOption func(*runnerConfig)

type runnerConfig struct {
	targetOS TargetOS
	logger   *slog.Logger
	defaults []Option
}

// WithTargetOS selects the shell dialect mock commands are rendered for.
func WithTargetOS(os TargetOS) RunnerOption {
	return func(c *runnerConfig) {
		c.targetOS = os
	}
}

// WithLogger sets the logger used for per-invocation debug records.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(c *runnerConfig) {
		c.logger = l
	}
}

// WithDefaults applies opts before the per-call options of every invocation.
func WithDefaults(opts ...Option) RunnerOption {
	return func(c *runnerConfig) {
		c.defaults = append(c.defaults, opts...)
	}
}
