package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "faver",
	Short: "A CLI tool for reviewing PhotoPrism libraries one moment at a time",
	Long: `Faver connects to a PhotoPrism instance, clusters the library into
moments (chronologically contiguous groups that correspond to real-world
outings), and tracks which photos you have already reviewed so each session
only shows what still needs attention.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
