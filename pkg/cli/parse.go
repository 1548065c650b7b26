package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go-blur/pkg/imageio"
)

// Version is reported by --version.
const Version = "1.0"

// DefaultSigma is used when --sigma is not given.
const DefaultSigma float32 = 10.0

const blurredSuffix = "_blurred"

// Exit codes returned through ExitError.
const (
	ExitFailure     = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

// ErrNoDefaultOutput is returned when the input name has no stem or
// extension to build the default output name from.
var ErrNoDefaultOutput = errors.New("cannot derive default output path")

// ExitError is an error that carries the process exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// Invocation is everything a single run needs, fixed at parse time.
type Invocation struct {
	InputPath   string
	OutputPath  string
	Sigma       float32
	JPEGQuality int
	Stats       bool
	LogLevel    slog.Level
	LogFormat   string
}

// DefaultOutputPath derives "<stem>_blurred.<ext>" from the file name of
// input. Directory components of input are dropped.
func DefaultOutputPath(input string) (string, error) {
	base := filepath.Base(input)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", fmt.Errorf("%w: %q has no file name", ErrNoDefaultOutput, input)
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrNoDefaultOutput, input)
	}
	if stem == "" {
		return "", fmt.Errorf("%w: %q has no file stem", ErrNoDefaultOutput, input)
	}
	return stem + blurredSuffix + ext, nil
}

// Parse builds an Invocation from args (without the program name). It
// returns exit=true when help or version output was written to out and
// nothing else should run. Usage problems are returned as *ExitError with
// code ExitUsage; no file is touched before Parse returns.
func Parse(args []string, out io.Writer) (inv *Invocation, exit bool, err error) {
	var (
		output      string
		sigma       float32
		jpegQuality int
		showStats   bool
		logLevel    string
		logFormat   string
	)

	cmd := &cobra.Command{
		Use:           "blur-image [flags] <image>",
		Short:         "Blurs images",
		Long:          "Blurs an image with a Gaussian kernel and writes the result to disk.",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one <image> argument, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLogLevel(logLevel)
			if err != nil {
				return err
			}
			format := strings.ToLower(logFormat)
			if format != "text" && format != "json" {
				return fmt.Errorf("invalid --log-format %q: must be 'text' or 'json'", logFormat)
			}
			if math.IsNaN(float64(sigma)) || math.IsInf(float64(sigma), 0) {
				return fmt.Errorf("invalid --sigma %v: must be a finite number", sigma)
			}
			if jpegQuality < 1 || jpegQuality > 100 {
				return fmt.Errorf("invalid --jpeg-quality %d: must be between 1 and 100", jpegQuality)
			}

			input := args[0]
			if !cmd.Flags().Changed("output") {
				output, err = DefaultOutputPath(input)
				if err != nil {
					return err
				}
			}

			inv = &Invocation{
				InputPath:   input,
				OutputPath:  output,
				Sigma:       sigma,
				JPEGQuality: jpegQuality,
				Stats:       showStats,
				LogLevel:    level,
				LogFormat:   format,
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "Sets the output `FILE` (default <stem>_blurred.<ext>)")
	flags.Float32VarP(&sigma, "sigma", "s", DefaultSigma, "Sets the blur sigma")
	flags.IntVar(&jpegQuality, "jpeg-quality", imageio.DefaultJPEGQuality, "JPEG quality for .jpg/.jpeg outputs (1-100)")
	flags.BoolVar(&showStats, "stats", false, "Print a timing summary after saving")
	flags.StringVar(&logLevel, "log-level", "warn", "Diagnostic log level: debug, info, warn or error")
	flags.StringVar(&logFormat, "log-format", "text", "Diagnostic log format: text or json")

	cmd.InitDefaultHelpFlag()
	cmd.InitDefaultVersionFlag()

	// Non-nil even when empty: cobra falls back to os.Args on nil.
	cmd.SetArgs(separatePositionals(flags, args))
	cmd.SetOut(out)
	cmd.SetErr(out)

	if err := cmd.Execute(); err != nil {
		return nil, false, &ExitError{
			Code:    ExitUsage,
			Message: fmt.Sprintf("error: %v\n\n%s", err, cmd.UsageString()),
			Err:     err,
		}
	}
	if inv == nil {
		return nil, true, nil
	}
	return inv, false, nil
}

// separatePositionals moves every token that is neither a known flag nor a
// known flag's value behind a "--", so names like "-photo.png" reach the
// command as positionals instead of failing as unknown shorthands.
func separatePositionals(flags *pflag.FlagSet, args []string) []string {
	opts := []string{}
	var positionals []string

	for i := 0; i < len(args); i++ {
		tok := args[i]
		switch {
		case tok == "--":
			positionals = append(positionals, args[i+1:]...)
			i = len(args)

		case strings.HasPrefix(tok, "--"):
			name, _, hasValue := strings.Cut(tok[2:], "=")
			f := flags.Lookup(name)
			if f == nil {
				positionals = append(positionals, tok)
				continue
			}
			opts = append(opts, tok)
			if !hasValue && f.NoOptDefVal == "" && i+1 < len(args) {
				i++
				opts = append(opts, args[i])
			}

		case len(tok) > 1 && tok[0] == '-':
			f := flags.ShorthandLookup(tok[1:2])
			if f == nil {
				positionals = append(positionals, tok)
				continue
			}
			opts = append(opts, tok)
			if len(tok) == 2 && f.NoOptDefVal == "" && i+1 < len(args) {
				i++
				opts = append(opts, args[i])
			}

		default:
			positionals = append(positionals, tok)
		}
	}

	if len(positionals) == 0 {
		return opts
	}
	return append(append(opts, "--"), positionals...)
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid --log-level %q: must be 'debug', 'info', 'warn' or 'error'", s)
	}
}

// NewLogger builds the diagnostic logger selected by the invocation.
func NewLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
