package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"zigdoc/internal/config"
)

var (
	configFormat    string
	configInitForce bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage zigdoc configuration",
	Long:  "View and manage zigdoc configuration stored in .zigdoc/config.{toml,json,yaml}",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Display the configuration after defaults, the config file and ZIGDOC_*
environment overrides are applied.

Examples:
  zigdoc config show
  zigdoc config show --format json
  ZIGDOC_OUTPUT_FORMAT=markdown zigdoc config show`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .zigdoc/config.toml",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format (toml, json, yaml)")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	source := a.cfg.File
	if source == "" {
		source = "defaults"
	}
	fmt.Fprintf(os.Stderr, "# source: %s\n", source)

	return writeConfig(os.Stdout, a.cfg, configFormat)
}

func writeConfig(w io.Writer, cfg *config.Config, format string) error {
	switch format {
	case "toml":
		return toml.NewEncoder(w).Encode(cfg)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// runConfigInit skips loading so that a broken config can be replaced with --force.
func runConfigInit(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return err
	}

	path, err := config.DefaultConfig().Save(root, configInitForce)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
