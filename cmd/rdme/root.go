package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is the CLI's own version string, set at build time via
// -ldflags "-X main.Version=...".
var Version = "dev"

var (
	verbose bool

	// Cfg binds every command's flags into one namespace so a run
	// profile can be supplied by flag, environment variable, or config
	// file interchangeably.
	Cfg = viper.New()

	log = logrus.New()
)

// RootCmd is the rdme command line.
var RootCmd = &cobra.Command{
	Use:   "rdme",
	Short: "A mesoscopic reaction-diffusion simulation engine.",
	Long:  "rdme runs deterministic and stochastic reaction-diffusion simulations over grid and graph spatial layouts.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	RootCmd.AddCommand(versionCmd, runCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the rdme version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rdme v%s\n", Version)
	},
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		log.WithError(err).Fatal("rdme failed")
	}
}
