package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faceattend/faceattend/internal/config"
)

var identitiesCmd = &cobra.Command{
	Use:   "identities",
	Short: "List enrolled identities and their sample counts",
	RunE:  runIdentities,
}

func init() {
	rootCmd.AddCommand(identitiesCmd)
}

func runIdentities(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	g, err := store.Load(context.Background())
	if err != nil {
		return err
	}

	if g.Identities() == 0 {
		fmt.Println("No identities enrolled")
		return nil
	}

	for _, name := range g.Names() {
		fmt.Printf("%-30s %d sample(s)\n", name, len(g.Samples(name)))
	}
	fmt.Printf("\n%d identities, %d vectors, dimension %d\n", g.Identities(), g.Vectors(), g.Dim())
	return nil
}
