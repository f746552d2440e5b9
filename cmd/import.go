package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/faceattend/faceattend/internal/config"
	"github.com/faceattend/faceattend/internal/enroll"
	"github.com/faceattend/faceattend/internal/gallery"
)

var importCmd = &cobra.Command{
	Use:   "import <samples.jsonl>",
	Short: "Bulk-enroll embedding samples from a JSONL file",
	Long: `Bulk-enroll embedding samples. Each line of the input file is one sample:

  {"name": "Alice", "vector": [0.12, -0.08, ...]}

Lines are enrolled in file order, so the file order becomes the gallery
enrollment order.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

type importSample struct {
	Name   string         `json:"name"`
	Vector gallery.Vector `json:"vector"`
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	var samples []importSample
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var sample importSample
		if err := json.Unmarshal(raw, &sample); err != nil {
			return fmt.Errorf("parsing %s line %d: %w", path, line, err)
		}
		samples = append(samples, sample)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if len(samples) == 0 {
		return fmt.Errorf("no samples found in %s", path)
	}

	cfg := config.Load()
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	service := enroll.NewService(store, cfg.Enroll.MaxSamples)

	bar := progressbar.NewOptions(len(samples),
		progressbar.OptionSetDescription("Enrolling"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("samples"),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)

	ctx := context.Background()
	enrolled := 0
	for _, sample := range samples {
		if _, err := service.Enroll(ctx, sample.Name, []gallery.Vector{sample.Vector}); err != nil {
			fmt.Fprintf(os.Stderr, "\nSkipping sample for %q: %v\n", sample.Name, err)
		} else {
			enrolled++
		}
		bar.Add(1)
	}

	fmt.Printf("\nEnrolled %d/%d samples\n", enrolled, len(samples))
	return nil
}
