package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"soul-battle/internal/config"
	"soul-battle/internal/render"
	"soul-battle/internal/server"
	"soul-battle/internal/web"
)

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)

	configPath := flag.String("config", "soul-battle.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// Generate host key if it doesn't exist
	if err := ensureHostKey(cfg.Server.HostKey); err != nil {
		log.Fatalf("Host key error: %v", err)
	}

	var heart render.PixelSprite
	if cfg.Battle.HeartSprite != "" {
		heart, err = render.LoadPixelSprite(cfg.Battle.HeartSprite)
		if err != nil {
			log.Fatalf("Heart sprite error: %v", err)
		}
		log.Printf("Heart sprite loaded: %s (%dx%d)", cfg.Battle.HeartSprite, heart.Width(), heart.Height())
	}

	sshServer, err := server.NewSSHServer(cfg, heart)
	if err != nil {
		log.Fatalf("SSH server error: %v", err)
	}
	webServer, err := web.NewServer(cfg)
	if err != nil {
		log.Fatalf("HTTP server error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	if cfg.Server.SSHAddr != "" {
		log.Printf("Starting Soul Battle, connect with: ssh -t -p %s localhost", strings.TrimPrefix(cfg.Server.SSHAddr, ":"))
		g.Go(func() error { return sshServer.Start(ctx) })
	}
	if cfg.Server.HTTPAddr != "" {
		g.Go(func() error { return webServer.Start(ctx) })
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Shut down")
}

func ensureHostKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // key already exists
	}

	log.Println("Generating new host key...")
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}

	pemBlock := &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: keyBytes,
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return pem.Encode(f, pemBlock)
}
