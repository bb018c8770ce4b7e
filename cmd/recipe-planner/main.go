package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"recipe-planner/internal/config"
	"recipe-planner/internal/database"
	"recipe-planner/internal/grocery"
	"recipe-planner/internal/importer"
	"recipe-planner/internal/metrics"
	"recipe-planner/internal/notify"
	"recipe-planner/internal/planner"
	"recipe-planner/internal/recipe"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "import":
		importCmd := flag.NewFlagSet("import", flag.ExitOnError)
		file := importCmd.String("file", "", "Path to a JSON array or JSON-lines recipe export")
		user := importCmd.String("user", "", "User id to import the recipes for")
		importCmd.Parse(os.Args[2:])

		if *file == "" || *user == "" {
			log.Fatal("import requires -file and -user")
		}
		if err := runImport(ctx, db, *file, *user); err != nil {
			log.Fatalf("Import failed: %v", err)
		}
	case "digest":
		digestCmd := flag.NewFlagSet("digest", flag.ExitOnError)
		user := digestCmd.String("user", "", "User id to send the digest for")
		digestCmd.Parse(os.Args[2:])

		if *user == "" {
			log.Fatal("digest requires -user")
		}
		if err := runDigest(ctx, cfg, db, *user); err != nil {
			log.Fatalf("Digest failed: %v", err)
		}
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		affected, err := metrics.NewStore(db.SQL).Cleanup(ctx, *days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runImport(ctx context.Context, db *database.DB, path, userID string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	recipes, err := importer.ParseBulk(f)
	if err != nil {
		return err
	}

	repo := recipe.NewRepository(db.SQL)
	for i := range recipes {
		rec := recipes[i]
		rec.ID = ""
		rec.AuthorID = userID
		for j, tag := range rec.Tags {
			rec.Tags[j] = recipe.NormalizeTag(tag)
		}
		if err := repo.Save(ctx, &rec); err != nil {
			return fmt.Errorf("saving %q: %w", rec.Title, err)
		}
	}
	fmt.Printf("Imported %d recipes for user %s.\n", len(recipes), userID)
	return nil
}

func runDigest(ctx context.Context, cfg *config.Config, db *database.DB, userID string) error {
	if !cfg.DigestEnabled() {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set")
	}

	notifier, err := notify.NewNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
	if err != nil {
		return err
	}

	weekStart := planner.WeekStart(time.Now(), time.Monday)
	items, err := planner.NewRepository(db.SQL).ListWeek(ctx, userID, weekStart)
	if err != nil {
		return err
	}
	if err := notifier.SendWeekDigest(weekStart, items); err != nil {
		return err
	}

	entries, err := grocery.NewRepository(db.SQL).List(ctx, userID)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		if err := notifier.SendGroceryDigest(grocery.CombineIngredients(entries)); err != nil {
			return err
		}
	}

	fmt.Println("Digest sent.")
	return nil
}

func printUsage() {
	fmt.Println("Usage: recipe-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  import             Bulk-import recipes from a JSON export")
	fmt.Println("  digest             Send the week plan and shopping list to Telegram")
	fmt.Println("  metrics-cleanup    Remove old request metric records")
}
