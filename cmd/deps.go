package cmd

import (
	"context"
	"fmt"

	"github.com/faceattend/faceattend/internal/config"
	"github.com/faceattend/faceattend/internal/gallery"
	"github.com/faceattend/faceattend/internal/gallery/postgres"
	"github.com/faceattend/faceattend/internal/matcher"
)

// openStore picks the gallery backend: PostgreSQL when DATABASE_URL is set,
// the JSON file in the data directory otherwise. The returned closer is a
// no-op for the file backend.
func openStore(cfg *config.Config) (gallery.Store, func() error, error) {
	if cfg.Database.URL != "" {
		fmt.Println("Using PostgreSQL gallery backend")
		store, err := postgres.Open(&cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("opening PostgreSQL gallery: %w", err)
		}
		return store, store.Close, nil
	}
	return gallery.NewFileStore(cfg.Data.GalleryPath()), func() error { return nil }, nil
}

// buildMatcher picks the matcher implementation. The HNSW index is built
// once from the current gallery; the serve loop rebuilds it after writes.
func buildMatcher(ctx context.Context, cfg *config.Config, store gallery.Store) (matcher.Matcher, error) {
	if !cfg.Match.HNSW {
		return matcher.NewLinear(cfg.Match.Threshold), nil
	}

	g, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading gallery for HNSW index: %w", err)
	}
	idx := matcher.NewHNSW(cfg.Match.Threshold, g)
	fmt.Printf("HNSW index built with %d vectors\n", idx.Count())
	return idx, nil
}
