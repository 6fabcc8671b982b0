package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jacoelho/gunner/internal/config"
	"github.com/jacoelho/gunner/internal/exit"
	"github.com/jacoelho/gunner/internal/logging"
	"github.com/jacoelho/gunner/internal/output"
	"github.com/jacoelho/gunner/internal/pathquery"
	"github.com/jacoelho/gunner/internal/queryfile"
	"github.com/jacoelho/gunner/pkg/gunner"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	exitCode := run(os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.FromEnv()
	if err != nil {
		r := exit.FromError(fmt.Errorf("%w: %w", gunner.ErrConfiguration, err))
		r.Output = stderr
		r.Print()
		return r.ExitCode
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := newRootCmd(&app{cfg: cfg, stdout: stdout, stderr: stderr})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	r := exit.FromError(root.ExecuteContext(ctx))
	if r.ExitCode != exit.CodeOK {
		r.Output = stderr
		r.Print()
	}
	return r.ExitCode
}

type app struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gunner",
		Short: "Extract values from paginated JSON resources",
		Long: `Gunner fetches a JSON resource page by page and extracts the values
selected by a dotted path ("projectile"), following reload values found
in each page to request the next one.

Paths use '.' between segments and '*' to select every child:
  data.children.*.data.title

Every flag defaults to the matching GUNNER_* environment variable.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cfg := a.cfg
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: json, yaml or lines")
	flags.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "HTTP request timeout")
	flags.Float64Var(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "Rate limit in requests per second (0 for unlimited)")
	flags.BoolVar(&cfg.Insecure, "insecure", cfg.Insecure, "Skip TLS certificate verification")
	flags.StringVar(&cfg.CACertFile, "cacert", cfg.CACertFile, "Path to CA certificate file for TLS verification")
	flags.StringVar(&cfg.UserAgent, "user-agent", cfg.UserAgent, "User-Agent header sent with each request")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	flags.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Also write JSON logs to this rotating file")
	flags.StringVar(&cfg.Document, "document", cfg.Document, "Read the resource from a local JSON file (comments and unquoted keys allowed) instead of the query url")
	flags.BoolVar(&cfg.Summary, "summary", cfg.Summary, "Print a run summary to stderr")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", gunner.ErrConfiguration, err)
	})

	rootCmd.AddCommand(fireCmd(a))
	rootCmd.AddCommand(rapidfireCmd(a))
	rootCmd.AddCommand(recoilCmd(a))

	return rootCmd
}

func queryFileArg(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return fmt.Errorf("%w: %w", gunner.ErrConfiguration, err)
	}
	return nil
}

func fireCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fire <query.yaml>",
		Short: "Run a query and print every projectile",
		Long: `Run a query file to completion and print the collected projectiles.

Example:
  gunner fire subreddits.yaml
  gunner fire subreddits.yaml --output lines --rate-limit 2`,
		Args: queryFileArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.prepare(args[0])
			if err != nil {
				return err
			}
			defer r.close()

			s, err := r.fetcher.Fire(cmd.Context(), r.query)
			r.summarize(s, err)
			if err != nil {
				return err
			}

			return r.writer.Values(s.Projectiles())
		},
	}
}

func rapidfireCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rapidfire <query.yaml>",
		Short: "Run a query and print projectiles one by one",
		Long: `Run a query file and print each projectile on its own as it is delivered.
With the yaml format every projectile is a separate document.

Example:
  gunner rapidfire subreddits.yaml --output lines`,
		Args: queryFileArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.prepare(args[0])
			if err != nil {
				return err
			}
			defer r.close()

			var writeErr error
			s, err := r.fetcher.Rapidfire(cmd.Context(), r.query, func(p any) {
				if writeErr == nil {
					writeErr = r.writer.Value(p)
				}
			})
			r.summarize(s, err)
			if err != nil {
				return err
			}
			return writeErr
		},
	}
}

func recoilCmd(a *app) *cobra.Command {
	var (
		target     string
		jsonTarget bool
		path       string
	)

	cmd := &cobra.Command{
		Use:   "recoil <query.yaml>",
		Short: "Run a query and print the records containing a value",
		Long: `Run a query file, then walk back from the projectile path and print every
record whose child equals the target value.

By default the target is a string; --json-target parses it as JSON so that
numbers, booleans and null can be matched.

Example:
  gunner recoil subreddits.yaml --target golang
  gunner recoil scores.yaml --target 42 --json-target
  gunner recoil posts.yaml --path 'data.children.*.data.author' --target alice`,
		Args: queryFileArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseTarget(target, jsonTarget)
			if err != nil {
				return err
			}

			if path != "" {
				if err := pathquery.Validate(path); err != nil {
					return fmt.Errorf("%w: recoil path: %w", gunner.ErrConfiguration, err)
				}
			}

			r, err := a.prepare(args[0])
			if err != nil {
				return err
			}
			defer r.close()

			s, err := r.fetcher.Fire(cmd.Context(), r.query)
			r.summarize(s, err)
			if err != nil {
				return err
			}

			if path == "" {
				return r.writer.Values(s.Recoil(value))
			}

			containers, err := s.RecoilPath(path, value)
			if err != nil {
				return err
			}
			return r.writer.Values(containers)
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "Value to recoil from")
	cmd.Flags().BoolVar(&jsonTarget, "json-target", false, "Parse --target as JSON")
	cmd.Flags().StringVar(&path, "path", "", "Recoil along this path instead of the query projectile")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func parseTarget(raw string, asJSON bool) (any, error) {
	if !asJSON {
		return raw, nil
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: target is not valid JSON: %w", gunner.ErrConfiguration, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: target has trailing data after the JSON value", gunner.ErrConfiguration)
	}
	return v, nil
}

// runner holds everything a command needs for one query.
type runner struct {
	cfg      *config.Config
	resource string
	fetcher  *gunner.Fetcher
	query    gunner.Query
	writer   *output.Writer
	log      zerolog.Logger
	closer   io.Closer
	stderr   io.Writer
	started  time.Time
}

func (a *app) prepare(queryFile string) (*runner, error) {
	a.cfg.QueryFile = queryFile
	if err := a.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", gunner.ErrConfiguration, err)
	}

	level, _ := a.cfg.Level()
	format, _ := a.cfg.Format()

	log, closer := logging.New(logging.Options{
		Level:   level,
		Console: a.stderr,
		File:    a.cfg.LogFile,
	})

	r := &runner{
		cfg:    a.cfg,
		writer: output.New(a.stdout, format),
		log:    log,
		closer: closer,
		stderr: a.stderr,
	}

	tr, err := a.cfg.Transport(&log)
	if err != nil {
		r.close()
		return nil, fmt.Errorf("%w: %w", gunner.ErrConfiguration, err)
	}

	file, err := queryfile.Load(queryFile)
	if err != nil {
		r.close()
		return nil, err
	}

	resource, err := file.Resource(a.cfg.Document)
	if err != nil {
		r.close()
		return nil, err
	}

	q, err := file.Builder(resource).
		OnFetch(func(fetches, limit int) {
			log.Debug().Int("fetches", fetches).Int("limit", limit).Msg("fetching page")
		}).
		Build()
	if err != nil {
		r.close()
		return nil, err
	}

	r.resource = resource.String()
	r.query = q
	r.fetcher = gunner.New(tr, gunner.WithLogger(log))
	r.started = time.Now()

	return r, nil
}

func (r *runner) summarize(s *gunner.Session, err error) {
	if !r.cfg.Summary {
		return
	}

	summary := output.Summary{
		Resource: r.resource,
		Duration: time.Since(r.started),
		Error:    err,
	}
	if s != nil {
		summary.Session = s.ID().String()
		summary.Fetches = s.Fetches()
		summary.Projectiles = len(s.Projectiles())
	}

	if werr := output.FormatSummary(r.stderr, summary); werr != nil {
		r.log.Warn().Err(werr).Msg("failed to write summary")
	}
}

func (r *runner) close() {
	if err := r.closer.Close(); err != nil {
		r.log.Warn().Err(err).Msg("failed to close log file")
	}
}
