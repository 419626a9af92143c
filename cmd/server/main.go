package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/harborne/LagoonDB"
	"github.com/harborne/LagoonDB/core"
	"github.com/harborne/LagoonDB/ps"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	port := flag.Int("port", 7654, "TCP port to listen on")
	baseDir := flag.String("baseDir", "", "Base directory for persistence (memory if empty)")
	jwtSecret := flag.String("jwtSecret", "", "Shared secret for JWT authentication (disabled if empty)")
	jwtIssuer := flag.String("jwtIssuer", "", "Expected JWT issuer claim")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("LagoonDB Server v%s\n", Version)
		return
	}

	// Initialize persistence
	var instance *LagoonDB.Instance
	if *baseDir == "" {
		log.Println("Using memory persistence")
		persistence, err := ps.NewMemoryPersistence()
		if err != nil {
			log.Fatalf("Failed to initialize memory persistence: %v", err)
		}
		instance = LagoonDB.Open(&persistence)
	} else {
		log.Printf("Using file persistence: %s", *baseDir)
		persistence, err := ps.NewFilePersistence(*baseDir)
		if err != nil {
			log.Fatalf("Failed to initialize file persistence: %v", err)
		}
		instance = LagoonDB.Open(&persistence)
	}

	identity := core.Identity{
		Name:  "LagoonDB Server",
		Email: "server@lagoondb.local",
	}

	var authConfig *AuthConfig
	if *jwtSecret != "" {
		authConfig = &AuthConfig{
			Enabled:   true,
			JWTSecret: *jwtSecret,
			Issuer:    *jwtIssuer,
		}
	}

	server := NewServer(instance, identity, authConfig)
	addr := fmt.Sprintf(":%d", *port)

	if err := server.Start(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	// Print banner
	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Printf("║   LagoonDB Server v%-18s ║\n", Version)
	fmt.Println("║   Git-backed Document Database        ║")
	fmt.Println("╚═══════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("Listening on port %d\n", *port)
	fmt.Println("Send queries (one per line), 'quit' to disconnect")
	fmt.Println()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	server.Stop()
	log.Println("Server stopped")
}
