package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/adfharrison1/go-baas/pkg/config"
	"github.com/adfharrison1/go-baas/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server on the configured port.

Examples:
  go-baas serve                                 # Start with defaults
  go-baas serve --port 9090                     # Custom port
  go-baas serve --background-save 5m            # Auto-save every 5 minutes
  go-baas serve --docstore sqlite --tree bolt   # Embedded on-disk stores

Safety Note:
  With the memory document store and no --background-save, data is only
  saved on graceful shutdown.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("port", "8080", "server port")
	serveCmd.Flags().Duration("background-save", 0, "background save interval for the memory backend (e.g. 5m, 30s); 0 disables")
	cobra.CheckErr(v.BindPFlag(config.KeyServerPort, serveCmd.Flags().Lookup("port")))
	cobra.CheckErr(v.BindPFlag(config.KeyDocBackgroundSave, serveCmd.Flags().Lookup("background-save")))
}

func runServe(cmd *cobra.Command, args []string) error {
	p, err := openPlatform(cmd.Context())
	if err != nil {
		return err
	}

	srv := server.NewServer(p)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: srv.Router(),
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting go-baas server on :%s", cfg.Server.Port)
		log.Printf("API endpoints available at http://localhost:%s", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}

	// Stores close after the last request has finished; the memory backend
	// writes its final snapshot here
	if err := p.Close(ctx); err != nil {
		return err
	}

	log.Println("Server exited")
	return nil
}
