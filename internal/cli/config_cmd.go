package cli

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/allot"
)

func newConfigCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long: "Print the effective configuration as YAML.\n\n" +
			"Without --config the defaults are printed, which makes a good starting file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}

			return enc.Close()
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Configuration file to load (default: built-in defaults)")

	return cmd
}

func loadConfig(path string) (allot.Config, error) {
	if path == "" {
		return allot.DefaultConfig(), nil
	}

	return allot.LoadConfig(path)
}
