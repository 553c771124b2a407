package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/samzong/gitai/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage gitai configuration",
		Long: `Show and change the settings stored in the gitai configuration file.
Environment variables (GITAI_* or OPENAI_*) and a .env file in the working
directory take precedence over the file.`,
	}

	configGetCmd = &cobra.Command{
		Use:       "get [key]",
		Short:     "Show the current configuration",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: config.KnownKeys(),
		RunE:      runConfigGet,
	}

	configSetCmd = &cobra.Command{
		Use:   "set <key> [value]",
		Short: "Set a configuration value",
		Long: `Set a configuration value and save it to the configuration file.
When the value for api_key is omitted it is read from the terminal without echo.

Keys: ` + strings.Join(config.KnownKeys(), ", "),
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: config.KnownKeys(),
		RunE:      runConfigSet,
	}
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	values := configValues(cfg)
	w := outWriter()
	if len(args) == 1 {
		key := args[0]
		if !config.IsKnownKey(key) {
			return unknownKeyError(key)
		}
		fmt.Fprintln(w, values[key])
		return nil
	}

	fmt.Fprintln(w, "Current configuration:")
	for _, key := range config.KnownKeys() {
		fmt.Fprintf(w, "  %-15s %s\n", key+":", values[key])
	}
	fmt.Fprintf(w, "Config file: %s\n", config.ConfigFilePath())
	return nil
}

func configValues(cfg *config.Config) map[string]string {
	return map[string]string{
		"model":          cfg.Model,
		"api_key":        maskSecret(cfg.APIKey),
		"api_base":       orNotSet(cfg.APIBase),
		"timeout":        timeoutValue(cfg.Timeout),
		"prompts_dir":    orNotSet(cfg.PromptsDir),
		"trunk_branches": strings.Join(cfg.TrunkBranches, ","),
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return fmt.Errorf("configuration error: %w", configErr)
	}

	key := args[0]
	if !config.IsKnownKey(key) {
		return unknownKeyError(key)
	}

	var raw string
	switch {
	case len(args) == 2:
		raw = args[1]
	case key == "api_key":
		secret, err := readSecret(cmd.InOrStdin(), "Enter API key: ")
		if err != nil {
			return err
		}
		raw = secret
	default:
		return fmt.Errorf("missing value for %s", key)
	}

	value, err := parseConfigValue(key, raw)
	if err != nil {
		return err
	}

	config.SetConfigValue(key, value)
	if err := config.SaveConfig(); err != nil {
		return err
	}

	w := outWriter()
	fmt.Fprintf(w, "Saved %s to %s\n", key, config.ConfigFilePath())
	if key == "model" {
		fmt.Fprintln(w, "Hint: any model name the API accepts works, suggested models are:")
		for _, m := range config.GetSuggestedModels() {
			fmt.Fprintf(w, "- %s\n", m)
		}
	}
	return nil
}

func parseConfigValue(key, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch key {
	case "timeout":
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds < 0 {
			return nil, fmt.Errorf("invalid timeout %q: expected a non-negative number of seconds", raw)
		}
		return seconds, nil
	case "trunk_branches":
		var branches []string
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				branches = append(branches, b)
			}
		}
		if len(branches) == 0 {
			return nil, errors.New("trunk_branches needs at least one branch name")
		}
		return branches, nil
	case "api_key", "model":
		if raw == "" {
			return nil, fmt.Errorf("%s cannot be empty", key)
		}
	}
	return raw, nil
}

// readSecret reads one line without echo when stdin is a terminal.
func readSecret(in io.Reader, prompt string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(errWriter(), prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(errWriter())
		if err != nil {
			return "", fmt.Errorf("failed to read API key: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func unknownKeyError(key string) error {
	return fmt.Errorf("unknown configuration key %q (known keys: %s)", key, strings.Join(config.KnownKeys(), ", "))
}

func maskSecret(s string) string {
	if s == "" {
		return "<not set>"
	}
	if len(s) <= 8 {
		return "********"
	}
	return "********" + s[len(s)-4:]
}

func orNotSet(s string) string {
	if s == "" {
		return "<not set>"
	}
	return s
}

func timeoutValue(seconds int) string {
	if seconds <= 0 {
		return "<not set>"
	}
	return strconv.Itoa(seconds) + "s"
}
