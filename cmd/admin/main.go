// Command admin bundles the operational one-shot tasks that do not
// belong in the long-running node: minting operator credentials,
// sweeping stale presence rows, and force-archiving investigations.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"relaynode/backend/internal/auth"
	"relaynode/backend/internal/config"
	"relaynode/backend/internal/models"
	"relaynode/backend/internal/storage"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() {
		_ = logger.Sync()
	}()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "seed-user":
		seedUser(os.Args[2:])
	case "presence-sweep":
		presenceSweep(sugar)
	case "archive":
		archive(os.Args[2:], sugar)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  admin seed-user <user-id> <password> <role>   print a RELAY_USERS entry
  admin presence-sweep                          mark stale presence rows offline
  admin archive <investigation-id>              force-archive an investigation`)
}

// seedUser prints a user:hash:role triple ready to paste into RELAY_USERS.
func seedUser(args []string) {
	if len(args) != 3 {
		usage()
		os.Exit(2)
	}
	userID, password, role := args[0], args[1], args[2]
	if auth.Permissions(auth.Role(role)) == nil {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", role)
		os.Exit(1)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("%s:%s:%s\n", userID, hash, role)
}

func openStore(sugar *zap.SugaredLogger) *storage.Service {
	cfg := config.NewConfig()
	db, err := storage.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}
	return storage.NewService(db, nil)
}

func presenceSweep(sugar *zap.SugaredLogger) {
	store := openStore(sugar)
	n, err := store.SweepStalePresence(config.PresenceStaleAfter)
	if err != nil {
		sugar.Fatalw("presence sweep failed", "error", err)
	}
	sugar.Infow("presence sweep done", "marked_offline", n)
}

// archive forces an investigation into the archived state regardless of
// the usual transition rules. Archived is terminal, so there is no undo.
func archive(args []string, sugar *zap.SugaredLogger) {
	if len(args) != 1 {
		usage()
		os.Exit(2)
	}
	store := openStore(sugar)
	id := args[0]

	inv, err := store.GetInvestigation(id)
	if err != nil {
		sugar.Fatalw("investigation lookup failed", "id", id, "error", err)
	}
	if inv.Status == models.StatusArchived {
		sugar.Infow("already archived", "id", id)
		return
	}

	status := models.StatusArchived
	if _, err := store.UpdateInvestigation(id, storage.InvestigationUpdate{Status: &status, Force: true}); err != nil {
		sugar.Fatalw("archive failed", "id", id, "error", err)
	}
	sugar.Infow("archived", "id", id, "was", inv.Status)
}
