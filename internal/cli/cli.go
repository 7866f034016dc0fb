// Package cli provides the command-line interface with injectable io.Writer for testing.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jmcdonald/folderup/internal/config"
	"github.com/jmcdonald/folderup/internal/ports"
	"github.com/jmcdonald/folderup/internal/publish"
	"github.com/spf13/pflag"
)

// EnvToken supplies a token when --token is not given.
const EnvToken = "HF_TOKEN"

// ConfigService provides configuration operations for the CLI.
type ConfigService interface {
	Load() (*config.Config, error)
	Save(cfg *config.Config) error
	ConfigPath() (string, error)
	DefaultConfig() (*config.Config, error)
}

// HubService provides publish and account operations for the CLI.
type HubService interface {
	Publish(ctx context.Context, cfg *config.Config, req publish.Request) publish.Result
	History(cfg *config.Config) ([]ports.TUIHistoryEntry, error)
	WhoAmI(ctx context.Context, cfg *config.Config, token string) (ports.Account, error)
	Credentials(cfg *config.Config) (ports.CredentialStore, error)
}

// CLI represents the command-line interface with injectable dependencies.
type CLI struct {
	Out     io.Writer // Standard output
	Err     io.Writer // Standard error
	Version string    // Application version
	Args    []string  // Command arguments (like os.Args)

	// Exit function for testability (defaults to os.Exit)
	Exit func(code int)

	// Getenv for testability (defaults to os.Getenv)
	Getenv func(key string) string

	// Injectable dependencies (nil means use defaults)
	ConfigSvc ConfigService
	HubSvc    HubService

	// Color functions (can be disabled for testing)
	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
	cyan   func(a ...interface{}) string
	gray   func(a ...interface{}) string
	red    func(a ...interface{}) string
}

// New creates a new CLI with default settings.
func New(version string) *CLI {
	return &CLI{
		Out:     os.Stdout,
		Err:     os.Stderr,
		Version: version,
		Args:    os.Args,
		Exit:    os.Exit,
		Getenv:  os.Getenv,
		green:   color.New(color.FgGreen, color.Bold).SprintFunc(),
		yellow:  color.New(color.FgYellow).SprintFunc(),
		cyan:    color.New(color.FgCyan).SprintFunc(),
		gray:    color.New(color.FgHiBlack).SprintFunc(),
		red:     color.New(color.FgRed).SprintFunc(),
	}
}

// NewForTesting creates a CLI configured for testing (no colors, captured output).
func NewForTesting(out, errOut io.Writer, args []string) *CLI {
	noColor := func(a ...interface{}) string { return fmt.Sprint(a...) }
	exitCode := 0
	return &CLI{
		Out:     out,
		Err:     errOut,
		Version: "test",
		Args:    args,
		Exit:    func(code int) { exitCode = code; _ = exitCode },
		Getenv:  func(string) string { return "" },
		green:   noColor,
		yellow:  noColor,
		cyan:    noColor,
		gray:    noColor,
		red:     noColor,
	}
}

// defaultConfigService wraps the config package functions.
type defaultConfigService struct{}

func (d *defaultConfigService) Load() (*config.Config, error)          { return config.Load() }
func (d *defaultConfigService) Save(cfg *config.Config) error          { return cfg.Save() }
func (d *defaultConfigService) ConfigPath() (string, error)            { return config.ConfigPath() }
func (d *defaultConfigService) DefaultConfig() (*config.Config, error) { return config.DefaultConfig() }

// Helper methods to get the service or default
func (c *CLI) configSvc() ConfigService {
	if c.ConfigSvc != nil {
		return c.ConfigSvc
	}
	return &defaultConfigService{}
}

func (c *CLI) hubSvc() HubService {
	if c.HubSvc != nil {
		return c.HubSvc
	}
	return &defaultHubService{logOut: c.Err, userAgent: "folderup/" + c.Version}
}

// Run executes the CLI with the configured arguments.
func (c *CLI) Run() {
	if len(c.Args) < 2 {
		// No command - would launch TUI, but we skip that for CLI testing
		fmt.Fprintln(c.Out, "No command specified. Use 'folderup help' for usage.")
		return
	}

	switch c.Args[1] {
	case "upload":
		c.RunUpload()
	case "login":
		c.Login()
	case "logout":
		c.Logout()
	case "whoami":
		c.WhoAmI()
	case "history":
		c.ShowHistory()
	case "init":
		c.InitConfig()
	case "version", "-v", "--version":
		fmt.Fprintf(c.Out, "folderup v%s\n", c.Version)
	case "help", "-h", "--help":
		c.PrintUsage()
	default:
		fmt.Fprintf(c.Err, "Unknown command: %s\n", c.Args[1])
		c.PrintUsage()
		c.Exit(1)
	}
}

// PrintUsage prints the help message.
func (c *CLI) PrintUsage() {
	fmt.Fprintln(c.Out, `folderup - Zip a folder and upload it to a Hugging Face dataset

Usage:
  folderup                                 Launch interactive TUI
  folderup ui                              Launch interactive TUI
  folderup upload <folder> <owner/name> [--token=TOKEN] [--keep-archive]
                  [--work-dir=DIR] [--revision=BRANCH]
                                           Zip folder and upload it as <folder>.zip
  folderup login [--token=TOKEN]           Verify and save a token
  folderup logout                          Remove the saved token
  folderup whoami [--token=TOKEN]          Show the account a token belongs to
  folderup history [--limit=N]             List recent uploads
  folderup init                            Create default config file
  folderup version, -v                     Show version
  folderup help, -h                        Show this help

Token: --token, then $HF_TOKEN, then the saved token
Config: ~/.folderup/config.yaml`)
}

// flagSet returns a flag set that reports parse errors on c.Err.
func (c *CLI) flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(c.Err)
	return fs
}

// parse parses the arguments after the command name. It reports false after
// printing an error.
func (c *CLI) parse(fs *pflag.FlagSet) bool {
	if err := fs.Parse(c.Args[2:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return false
		}
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return false
	}
	return true
}

// loadConfig loads the config or reports the failure.
func (c *CLI) loadConfig() (*config.Config, bool) {
	cfg, err := c.configSvc().Load()
	if err != nil {
		fmt.Fprintf(c.Err, "Error loading config: %v\n", err)
		c.Exit(1)
		return nil, false
	}
	return cfg, true
}

// resolveToken returns the flag value, else $HF_TOKEN. fromEnv reports the
// latter.
func (c *CLI) resolveToken(flag string) (token string, fromEnv bool) {
	if t := strings.TrimSpace(flag); t != "" {
		return t, false
	}
	if c.Getenv != nil {
		if t := strings.TrimSpace(c.Getenv(EnvToken)); t != "" {
			return t, true
		}
	}
	return "", false
}

// InitConfig creates the default config file.
func (c *CLI) InitConfig() {
	svc := c.configSvc()
	cfg, err := svc.DefaultConfig()
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}
	if err := svc.Save(cfg); err != nil {
		fmt.Fprintf(c.Err, "Error saving config: %v\n", err)
		c.Exit(1)
		return
	}
	path, err := svc.ConfigPath()
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}
	fmt.Fprintf(c.Out, "Created config at %s\n", path)
}

// RunUpload zips a folder and uploads it.
func (c *CLI) RunUpload() {
	fs := c.flagSet("upload")
	tokenFlag := fs.StringP("token", "t", "", "Hugging Face token")
	keep := fs.Bool("keep-archive", false, "keep the local archive")
	workDir := fs.String("work-dir", "", "directory to stage the archive in")
	revision := fs.String("revision", "", "branch to commit to")
	if !c.parse(fs) {
		return
	}

	args := fs.Args()
	if len(args) != 2 {
		fmt.Fprintln(c.Out, "Usage: folderup upload <folder> <owner/name> [--token=TOKEN] [--keep-archive]")
		c.Exit(1)
		return
	}

	cfg, ok := c.loadConfig()
	if !ok {
		return
	}
	if *keep {
		cfg.KeepArchive = true
	}
	if *workDir != "" {
		cfg.WorkDir = *workDir
	}
	if *revision != "" {
		cfg.Revision = *revision
	}

	token, fromEnv := c.resolveToken(*tokenFlag)
	if fromEnv {
		cfg.SaveToken = false
	}

	req := publish.Request{Folder: args[0], Token: token, RepoID: args[1]}
	archive, err := publish.ArchiveName(req.Folder)
	if err != nil {
		archive = req.Folder
	}
	fmt.Fprintf(c.Out, "%s Uploading %s to %s...\n", c.cyan("=>"), archive, c.cyan(req.RepoID))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res := c.hubSvc().Publish(ctx, cfg, req)
	if !res.OK() {
		fmt.Fprintf(c.Err, "%s %s\n", c.red("x"), res.Status())
		if res.Kept {
			fmt.Fprintf(c.Err, "  Archive kept at %s\n", res.Archive)
		}
		c.Exit(1)
		return
	}

	fmt.Fprintf(c.Out, "%s %s\n", c.green("*"), res.Status())
	fmt.Fprintf(c.Out, "  %s %d files in %s\n",
		c.yellow(publish.FormatSize(res.Size)),
		res.FileCount,
		res.Duration.Round(time.Millisecond))
	if res.CommitURL != "" {
		fmt.Fprintf(c.Out, "  Commit: %s\n", res.CommitURL)
	}
	if res.Kept {
		fmt.Fprintf(c.Out, "  %s\n", c.gray("Local archive kept"))
	}
}

// Login verifies a token against the hub and saves it.
func (c *CLI) Login() {
	fs := c.flagSet("login")
	tokenFlag := fs.StringP("token", "t", "", "Hugging Face token")
	if !c.parse(fs) {
		return
	}

	token, _ := c.resolveToken(*tokenFlag)
	if token == "" {
		fmt.Fprintf(c.Out, "Usage: folderup login --token=TOKEN (or set $%s)\n", EnvToken)
		c.Exit(1)
		return
	}

	cfg, ok := c.loadConfig()
	if !ok {
		return
	}
	svc := c.hubSvc()

	acct, err := svc.WhoAmI(context.Background(), cfg, token)
	if err != nil {
		fmt.Fprintf(c.Err, "Login failed: %v\n", err)
		c.Exit(1)
		return
	}

	store, err := svc.Credentials(cfg)
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}
	if err := store.Save(token); err != nil {
		fmt.Fprintf(c.Err, "Error saving token: %v\n", err)
		c.Exit(1)
		return
	}

	fmt.Fprintf(c.Out, "%s Logged in as %s\n", c.green("*"), c.cyan(acct.Name))
	fmt.Fprintf(c.Out, "  Token saved to %s\n", store.Path())
}

// Logout removes the saved token.
func (c *CLI) Logout() {
	cfg, ok := c.loadConfig()
	if !ok {
		return
	}

	store, err := c.hubSvc().Credentials(cfg)
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}
	if err := store.Delete(); err != nil {
		fmt.Fprintf(c.Err, "Error removing token: %v\n", err)
		c.Exit(1)
		return
	}
	fmt.Fprintf(c.Out, "%s Removed token at %s\n", c.yellow("-"), store.Path())
}

// WhoAmI shows the account a token belongs to.
func (c *CLI) WhoAmI() {
	fs := c.flagSet("whoami")
	tokenFlag := fs.StringP("token", "t", "", "Hugging Face token")
	if !c.parse(fs) {
		return
	}

	cfg, ok := c.loadConfig()
	if !ok {
		return
	}
	svc := c.hubSvc()

	token, _ := c.resolveToken(*tokenFlag)
	if token == "" {
		store, err := svc.Credentials(cfg)
		if err == nil {
			token, err = store.Load()
		}
		if err != nil {
			if errors.Is(err, ports.ErrNoToken) {
				fmt.Fprintln(c.Out, "Not logged in. Use 'folderup login --token=TOKEN'.")
			} else {
				fmt.Fprintf(c.Err, "Error loading token: %v\n", err)
			}
			c.Exit(1)
			return
		}
	}

	acct, err := svc.WhoAmI(context.Background(), cfg, token)
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}

	fmt.Fprintln(c.Out, c.cyan(acct.Name))
	if acct.FullName != "" {
		fmt.Fprintf(c.Out, "  Name:  %s\n", acct.FullName)
	}
	if len(acct.Orgs) > 0 {
		fmt.Fprintf(c.Out, "  Orgs:  %s\n", strings.Join(acct.Orgs, ", "))
	}
	fmt.Fprintf(c.Out, "  Hub:   %s\n", c.gray(cfg.EndpointURL()))
}

// ShowHistory lists recent uploads.
func (c *CLI) ShowHistory() {
	fs := c.flagSet("history")
	limit := fs.IntP("limit", "n", 20, "number of uploads to show (0 for all)")
	if !c.parse(fs) {
		return
	}

	cfg, ok := c.loadConfig()
	if !ok {
		return
	}

	entries, err := c.hubSvc().History(cfg)
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}

	if len(entries) == 0 {
		fmt.Fprintln(c.Out, "No uploads yet")
		return
	}
	if *limit > 0 && len(entries) > *limit {
		entries = entries[:*limit]
	}

	fmt.Fprintf(c.Out, "  %-20s %-28s %10s %8s %s\n", "UPLOADED", "REPOSITORY", "SIZE", "FILES", "ARCHIVE")
	fmt.Fprintf(c.Out, "  %-20s %-28s %10s %8s %s\n", "--------", "----------", "----", "-----", "-------")

	for _, e := range entries {
		fmt.Fprintf(c.Out, "  %-20s %-28s %10s %8d %s\n",
			e.UploadedAt.Local().Format("2006-01-02 15:04:05"),
			e.RepoID,
			publish.FormatSize(e.Size),
			e.FileCount,
			e.Archive)
	}
}
