package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "faceattend",
	Short: "Face-recognition attendance service",
	Long: `Faceattend stores face embedding samples per identity, identifies unknown
embeddings by nearest-neighbor search against the enrolled gallery, and
gates administrative actions behind a rotatable hashed credential.

Face detection and embedding generation happen in an external embedding
server; this service only ever handles the numeric vectors.`,
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
