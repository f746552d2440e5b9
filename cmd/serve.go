package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/faceattend/faceattend/internal/attendance"
	"github.com/faceattend/faceattend/internal/config"
	"github.com/faceattend/faceattend/internal/credential"
	"github.com/faceattend/faceattend/internal/embedding"
	"github.com/faceattend/faceattend/internal/enroll"
	"github.com/faceattend/faceattend/internal/gallery"
	"github.com/faceattend/faceattend/internal/matcher"
	"github.com/faceattend/faceattend/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the attendance web server",
	Long: `Start the faceattend web server.
The server exposes recognition and enrollment endpoints for the attendance
frontend and gates administrative routes behind the admin credential.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides WEB_PORT)")
	serveCmd.Flags().String("host", "", "Host to bind to (overrides WEB_HOST)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := context.Background()
	m, err := buildMatcher(ctx, cfg, store)
	if err != nil {
		return err
	}

	service := enroll.NewService(store, cfg.Enroll.MaxSamples)
	if idx, ok := m.(*matcher.HNSW); ok {
		service.OnChange = func(g *gallery.Gallery) { idx.Rebuild(g) }
	}

	creds := credential.NewManager(cfg.Data.CredentialPath())
	journal := attendance.NewJournal(cfg.Data.AttendancePath())

	var embedder embedding.Embedder
	if cfg.Embedding.URL != "" {
		embedder = embedding.NewClient(cfg.Embedding.URL, cfg.Embedding.Model)
		fmt.Printf("Embedding server: %s\n", cfg.Embedding.URL)
	} else {
		fmt.Println("No embedding server configured; image endpoints disabled")
	}

	host := cfg.Web.Host
	port := cfg.Web.Port
	if flagHost := mustGetString(cmd, "host"); flagHost != "" {
		host = flagHost
	}
	if flagPort := mustGetInt(cmd, "port"); flagPort != 0 {
		port = flagPort
	}

	server := web.NewServer(web.Deps{
		Store:    store,
		Matcher:  m,
		Enroll:   service,
		Creds:    creds,
		Journal:  journal,
		Embedder: embedder,
	}, host, port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting faceattend on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
