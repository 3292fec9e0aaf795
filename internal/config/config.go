// Package config gathers the run settings from flags, the environment and,
// for anything still missing, questions on the terminal.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	EnvLogLevel = "LOG_LEVEL"
	// StdioPath as the image path reads the image from standard input; as
	// the output path it writes a PNG to standard output.
	StdioPath = "-"

	intro = "This program converts an image into a black and white outline."
)

var (
	ErrMissingImage = errors.New("no image path given")
	// ErrPromptFromStdin means a value is missing while stdin carries the image.
	ErrPromptFromStdin = errors.New("cannot ask for settings while the image is read from stdin")
)

type Config struct {
	ImagePath  string
	OutputPath string
	// Zero keeps the image's own size on that axis.
	Width     int
	Height    int
	Threshold int

	StaleNeighbors   bool
	SkipStrayRemoval bool
	Preview          bool
	LogLevel         string

	thresholdSet bool
}

// Parse reads args (without the program name). A single positional
// argument is taken as the image path when -image is absent.
func Parse(args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}

	fs := newFlagSet(cfg)
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "threshold" {
			cfg.thresholdSet = true
		}
	})

	switch rest := fs.Args(); {
	case len(rest) == 1 && cfg.ImagePath == "":
		cfg.ImagePath = rest[0]
	case len(rest) > 0:
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(rest, " "))
	}

	if cfg.LogLevel == "" && getenv != nil {
		cfg.LogLevel = getenv(EnvLogLevel)
	}

	return cfg, nil
}

// Load parses args, asks on prompts for anything missing and validates the
// result. Questions never go to stdout, which may be carrying the image.
func Load(args []string, getenv func(string) string, stdin io.Reader, prompts io.Writer) (*Config, error) {
	cfg, err := Parse(args, getenv)
	if err != nil {
		return nil, err
	}

	if cfg.NeedsPrompt() {
		fmt.Fprintln(prompts, intro)
		if err := Prompt(stdin, prompts, cfg); err != nil {
			return nil, fmt.Errorf("read settings: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Usage writes the flag reference to w.
func Usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: grayscale-changer [flags] [image]")
	fmt.Fprintln(w, "The image path and threshold are asked for on stderr when not given.")
	fmt.Fprintln(w, "An image of \"-\" is read from stdin. JPEG output is lossy, prefer PNG or BMP.")
	fs := newFlagSet(&Config{})
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func newFlagSet(cfg *Config) *flag.FlagSet {
	fs := flag.NewFlagSet("grayscale-changer", flag.ContinueOnError)
	fs.StringVar(&cfg.ImagePath, "image", "", "image file to filter, \"-\" reads stdin")
	fs.StringVar(&cfg.OutputPath, "out", "", "output file, defaults to overwriting -image; \"-\" writes PNG to stdout")
	fs.IntVar(&cfg.Width, "width", 0, "width to scale the image to, 0 keeps the file's width")
	fs.IntVar(&cfg.Height, "height", 0, "height to scale the image to, 0 keeps the file's height")
	fs.IntVar(&cfg.Threshold, "threshold", 0, "shades of gray a neighbor must be lighter by for a pixel to turn black")
	fs.BoolVar(&cfg.StaleNeighbors, "stale-neighbors", false, "reuse neighbor results across edge pixels like the legacy tool")
	fs.BoolVar(&cfg.SkipStrayRemoval, "keep-strays", false, "skip removing isolated black pixels")
	fs.BoolVar(&cfg.Preview, "preview", false, "show the original and result in a window")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "debug, info, warn or error (overrides "+EnvLogLevel+")")
	return fs
}

// NeedsPrompt reports whether Prompt has anything to ask.
func (c *Config) NeedsPrompt() bool {
	return c.ImagePath == "" || !c.thresholdSet
}

// SetThreshold records an explicit threshold, as the -threshold flag does.
func (c *Config) SetThreshold(threshold int) {
	c.Threshold = threshold
	c.thresholdSet = true
}

// Prompt asks on out and reads answers from in for every required value
// that is missing. When the image path is asked for, width and height are
// asked too; a blank answer keeps the file's size.
func Prompt(in io.Reader, out io.Writer, cfg *Config) error {
	if cfg.ImagePath == StdioPath {
		return ErrPromptFromStdin
	}

	reader := bufio.NewReader(in)

	askedImage := false
	if cfg.ImagePath == "" {
		answer, err := ask(reader, out, "Please enter the name of the image: ")
		if err != nil {
			return err
		}
		if answer == "" {
			return ErrMissingImage
		}
		cfg.ImagePath = answer
		askedImage = true
	}

	if askedImage {
		width, err := askInt(reader, out, "Please enter image width (blank keeps the file's width): ", true)
		if err != nil {
			return err
		}
		cfg.Width = width

		height, err := askInt(reader, out, "Please enter image height (blank keeps the file's height): ", true)
		if err != nil {
			return err
		}
		cfg.Height = height
	}

	if !cfg.thresholdSet {
		threshold, err := askInt(reader, out, "Please enter the shades of gray you would like augmented: ", false)
		if err != nil {
			return err
		}
		cfg.SetThreshold(threshold)
	}

	return nil
}

// Validate checks the settings a run cannot start without and fills in
// the output path.
func (c *Config) Validate() error {
	if c.ImagePath == "" {
		return ErrMissingImage
	}
	if !c.thresholdSet {
		return fmt.Errorf("threshold is required")
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	}
	if c.OutputPath == "" {
		c.OutputPath = c.ImagePath
	}
	if c.OutputPath == StdioPath && c.Preview {
		return fmt.Errorf("-preview cannot be combined with writing to stdout")
	}
	return nil
}

func ask(reader *bufio.Reader, out io.Writer, question string) (string, error) {
	fmt.Fprint(out, question)
	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func askInt(reader *bufio.Reader, out io.Writer, question string, blankIsZero bool) (int, error) {
	answer, err := ask(reader, out, question)
	if err != nil {
		if blankIsZero && errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, err
	}
	if answer == "" && blankIsZero {
		return 0, nil
	}

	value, err := strconv.Atoi(answer)
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", answer)
	}
	return value, nil
}
