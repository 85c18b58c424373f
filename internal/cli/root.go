package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xbeat/certicredia-sub000/pkg/client"
)

var (
	cfgFile      string
	outputFormat string
	serverURL    string
	apiClient    *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "certicredia",
	Short: "CertiCredia CLI - Cybersecurity Psychology Certification Platform",
	Long: `CertiCredia CLI provides command-line access to the CertiCredia platform
for managing CPF compliance profiles, scoring indicator assessments,
driving accreditation cases through review, and assigning specialists.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Config management works without a client
		if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
			return nil
		}
		return initAuthenticatedClient()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.certicredia/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (overrides config)")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("server_url", rootCmd.PersistentFlags().Lookup("server"))

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newOrganizationCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newCaseCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return
		}
		configDir := home + "/.certicredia"
		_ = os.MkdirAll(configDir, 0700)
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CERTICREDIA")
	viper.AutomaticEnv()

	viper.SetDefault("server_url", "http://localhost:8080")
	viper.SetDefault("output", "table")

	_ = viper.ReadInConfig()
}

func initAuthenticatedClient() error {
	url := viper.GetString("server_url")
	if serverURL != "" {
		url = serverURL
	}

	token := viper.GetString("auth.token")
	if token == "" {
		return fmt.Errorf("no API token configured. Run 'certicredia config set auth.token <jwt>' first")
	}

	apiClient = client.NewClient(client.Config{
		BaseURL: url,
		Token:   token,
	})
	return nil
}

func getOutputFormat() string {
	if outputFormat != "" && outputFormat != "table" {
		return outputFormat
	}
	return viper.GetString("output")
}
