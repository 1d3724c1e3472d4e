package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trainsafe/backend/internal/audit"
	auditrepo "trainsafe/backend/internal/audit/repository"
	"trainsafe/backend/internal/config"
	"trainsafe/backend/internal/db"
	identityhandler "trainsafe/backend/internal/identity/handler"
	identityrepo "trainsafe/backend/internal/identity/repository"
	identityservice "trainsafe/backend/internal/identity/service"
	"trainsafe/backend/internal/netguard"
	otprepo "trainsafe/backend/internal/otp/repository"
	"trainsafe/backend/internal/permission"
	"trainsafe/backend/internal/query"
	queryhandler "trainsafe/backend/internal/query/handler"
	queryservice "trainsafe/backend/internal/query/service"
	"trainsafe/backend/internal/security"
	"trainsafe/backend/internal/server"
	sessionhandler "trainsafe/backend/internal/session/handler"
	sessionrepo "trainsafe/backend/internal/session/repository"
	sessionservice "trainsafe/backend/internal/session/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	var allowlist *netguard.Allowlist
	if entries := cfg.AllowedIPRangesList(); len(entries) > 0 {
		allowlist, err = netguard.NewAllowlist(entries)
		if err != nil {
			log.Fatalf("allowed IP ranges: %v", err)
		}
	}

	identities := identityrepo.NewPostgresRepository(conn)
	codes := otprepo.NewPostgresRepository(conn)
	sessions := sessionrepo.NewPostgresRepository(conn)
	audits := auditrepo.NewPostgresRepository(conn)

	auditor := audit.NewLogger(audits, audit.ClientIPFromContext)
	hasher := security.NewHasher(cfg.BcryptCost)
	verifier := identityservice.NewVerifier(identities, hasher)
	lifecycle := sessionservice.NewLifecycle(codes, sessions, identities, cfg.CodeTTL(), cfg.SessionTTL())
	evaluator := permission.NewEvaluator(cfg.ResourceTable)
	gateway := queryservice.NewGateway(lifecycle, evaluator, query.NewSQLExecutor(conn), auditor)

	router := server.NewRouter(server.Deps{
		Login:     identityhandler.NewLoginHandler(verifier, lifecycle, auditor, cfg.OTPReturnToClient),
		Sessions:  sessionhandler.NewSessionHandler(lifecycle, auditor),
		Queries:   queryhandler.NewQueryHandler(gateway),
		DB:        conn,
		Allowlist: allowlist,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
