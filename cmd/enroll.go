package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/faceattend/faceattend/internal/config"
	"github.com/faceattend/faceattend/internal/enroll"
	"github.com/faceattend/faceattend/internal/gallery"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll <name> <vectors.json>",
	Short: "Enroll embedding samples for an identity",
	Long: `Enroll one or more embedding vectors for an identity.
The vectors file is a JSON array of arrays of numbers, e.g. produced by the
embedding server. Samples append to any existing ones for the identity.`,
	Args: cobra.ExactArgs(2),
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)
}

func runEnroll(cmd *cobra.Command, args []string) error {
	name, path := args[0], args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var vectors []gallery.Vector
	if err := json.Unmarshal(data, &vectors); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg := config.Load()
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	service := enroll.NewService(store, cfg.Enroll.MaxSamples)
	g, err := service.Enroll(context.Background(), name, vectors)
	if err != nil {
		return err
	}

	fmt.Printf("Enrolled %d vector(s) for %q (%d total)\n", len(vectors), name, len(g.Samples(name)))
	return nil
}
