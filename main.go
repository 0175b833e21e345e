// Command postdeck manages posts on a REST API, interactively or through
// subcommands.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/debemdeboas/postdeck/internal/api"
	"github.com/debemdeboas/postdeck/internal/config"
	"github.com/debemdeboas/postdeck/internal/logger"
	"github.com/debemdeboas/postdeck/internal/model"
	"github.com/debemdeboas/postdeck/internal/render"
	"github.com/debemdeboas/postdeck/internal/store"
	"github.com/debemdeboas/postdeck/internal/theme"
	"github.com/debemdeboas/postdeck/internal/tui"
)

const usage = `usage: postdeck [global flags] [command]

commands:
  tui                              interactive view (default)
  list [--json]                    print all posts
  add --title T --body B           create a post
  update ID --title T --body B     update a post
  delete ID                        delete a post

global flags:
`

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
	}
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries what every subcommand needs.
type app struct {
	cfg    *config.Config
	store  *store.Store
	log    zerolog.Logger
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdout, stderr io.Writer) int {
	global := pflag.NewFlagSet("postdeck", pflag.ContinueOnError)
	global.SetOutput(stderr)
	global.SetInterspersed(false)
	global.Usage = func() {
		fmt.Fprint(stderr, usage)
		global.PrintDefaults()
	}
	configPath := global.String("config", "config.yaml", "path to the configuration file")
	apiURL := global.String("api", "", "posts API base URL; overrides api.base_url")
	logLevel := global.String("log-level", "", "log level; overrides logging.level")

	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if err := config.LoadConfig(*configPath); err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return exitError
	}
	cfg := config.AppConfig
	if *apiURL != "" {
		cfg.API.BaseURL = *apiURL
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	command := "tui"
	rest := global.Args()
	if len(rest) > 0 {
		command, rest = rest[0], rest[1:]
	}

	a := &app{cfg: cfg, stdout: stdout, stderr: stderr}

	logOut := stderr
	if command == "tui" {
		f, err := logger.OpenFile(cfg.Logging.File)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitError
		}
		defer f.Close()
		logOut = f
	}
	a.log = logger.New(cfg.Logging.Level, logOut)
	config.SetLogger(a.log.With().Str("component", "config").Logger())
	api.SetLogger(a.log.With().Str("component", "api").Logger())
	store.SetLogger(a.log.With().Str("component", "store").Logger())
	tui.SetLogger(a.log.With().Str("component", "tui").Logger())

	client, err := api.FromConfig(cfg.API)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating API client: %v\n", err)
		return exitError
	}
	a.store = store.New(client)

	switch command {
	case "tui":
		err = a.runTUI()
	case "list":
		err = a.runList(rest)
	case "add":
		err = a.runAdd(rest)
	case "update":
		err = a.runUpdate(rest)
	case "delete":
		err = a.runDelete(rest)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", command)
		global.Usage()
		return exitUsage
	}

	var uerr usageError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &uerr):
		fmt.Fprintln(stderr, uerr.Error())
		return exitUsage
	case errors.Is(err, pflag.ErrHelp):
		return exitOK
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitError
}

type usageError string

func (e usageError) Error() string { return string(e) }

func (a *app) flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *app) runTUI() error {
	program := tea.NewProgram(tui.New(a.store, a.cfg.Theme), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (a *app) runList(args []string) error {
	fs := a.flagSet("list")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.store.FetchPosts(context.Background()); err != nil {
		return fmt.Errorf("fetch posts: %w", err)
	}
	return a.print(a.store.State().Posts, *asJSON)
}

// postFlags parses --title, --body and --json.
func (a *app) postFlags(name string, args []string) (model.PostInput, []string, bool, error) {
	fs := a.flagSet(name)
	title := fs.String("title", "", "post title (10 to 150 characters)")
	body := fs.String("body", "", "post body (50 to 300 characters)")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return model.PostInput{}, nil, false, err
	}

	in := model.PostInput{Title: *title, Body: *body}
	return in, fs.Args(), *asJSON, model.ValidatePost(in)
}

func (a *app) runAdd(args []string) error {
	in, _, asJSON, err := a.postFlags("add", args)
	if err != nil {
		return err
	}

	post, err := a.store.AddPost(context.Background(), in)
	if err != nil {
		return fmt.Errorf(config.ErrAddPostFmt, err)
	}
	a.log.Info().Str("post_id", post.ID.String()).Msg(config.MsgPostAdded)
	return a.print([]model.Post{post}, asJSON)
}

func (a *app) runUpdate(args []string) error {
	in, rest, asJSON, err := a.postFlags("update", args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return usageError("usage: postdeck update ID --title T --body B")
	}

	id := model.PostID(rest[0])
	post, err := a.store.UpdatePost(context.Background(), id, in)
	if err != nil {
		return fmt.Errorf(config.ErrUpdatePostFmt, err)
	}
	a.log.Info().Str("post_id", id.String()).Msg(config.MsgPostUpdated)
	return a.print([]model.Post{post}, asJSON)
}

func (a *app) runDelete(args []string) error {
	fs := a.flagSet("delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageError("usage: postdeck delete ID")
	}

	id := model.PostID(fs.Arg(0))
	if err := a.store.DeletePost(context.Background(), id); err != nil {
		return fmt.Errorf(config.ErrDeletePostFmt, err)
	}
	fmt.Fprintln(a.stdout, config.MsgPostDeleted)
	return nil
}

func (a *app) print(posts []model.Post, asJSON bool) error {
	if asJSON {
		out, err := render.FormatJSON(posts, a.syntaxStyle())
		if err != nil {
			return err
		}
		_, err = io.WriteString(a.stdout, out)
		return err
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tBODY")
	for _, p := range posts {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Title, preview(strings.ReplaceAll(p.Body, "\n", " "), 48))
	}
	return tw.Flush()
}

// syntaxStyle returns the chroma style for JSON output, or "" when stdout is
// not a terminal.
func (a *app) syntaxStyle() string {
	f, ok := a.stdout.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return ""
	}
	return theme.GetDefaultSyntaxTheme(a.cfg.Theme.Default, a.cfg.Theme.SyntaxHighlighting)
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
