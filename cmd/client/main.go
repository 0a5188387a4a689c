package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/avolkov/pantrypal/internal/blobstore"
	"github.com/avolkov/pantrypal/internal/logger"
	"github.com/avolkov/pantrypal/internal/lookup"
	"github.com/avolkov/pantrypal/internal/models"
	"github.com/avolkov/pantrypal/internal/notify"
	"github.com/avolkov/pantrypal/internal/repository"
	"github.com/avolkov/pantrypal/internal/service"
)

const dateLayout = "2006-01-02"

var (
	version   string
	buildDate string
)

// repl runs the interactive shell loop, accepting commands to manage
// the pantry collection.
func repl(pantry *service.PantryService, scheduler *service.NotificationScheduler, recipes *lookup.RecipeClient) {
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("pantrypal> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, scan <code>, add <title> [yyyy-mm-dd], expire <id> <yyyy-mm-dd>, list, expiring [days], remove <id>, clear, status, time <hh:mm>, test, recipes, exit")
		case "scan":
			if len(args) < 2 {
				fmt.Println("Usage: scan <code>")
				continue
			}
			rec, err := pantry.Scan(ctx, args[1])
			if err == lookup.ErrProductNotFound {
				fmt.Println("Product not found, add it manually: add <title>")
				continue
			}
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Printf("Added %s (%s)\n", rec.Title, rec.DisplayWeight())
		case "add":
			if len(args) < 2 {
				fmt.Println("Usage: add <title> [yyyy-mm-dd]")
				continue
			}
			cand := models.Candidate{Title: args[1], Manual: true}
			if len(args) > 2 {
				at, err := parseDate(args[2])
				if err != nil {
					fmt.Println("Bad date:", err)
					continue
				}
				cand.ExpiresAt = &at
			}
			rec, err := pantry.Save(ctx, cand)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Printf("Added %s [%s]\n", rec.Title, rec.Identity())
		case "expire":
			if len(args) < 3 {
				fmt.Println("Usage: expire <id> <yyyy-mm-dd>")
				continue
			}
			id, err := models.ParseID(args[1])
			if err != nil {
				fmt.Println("Bad id:", err)
				continue
			}
			at, err := parseDate(args[2])
			if err != nil {
				fmt.Println("Bad date:", err)
				continue
			}
			if _, err := pantry.SetExpiration(ctx, id, at); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Expiration updated")
		case "list":
			records, err := pantry.List(ctx)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			printRecords(records)
		case "expiring":
			window := time.Duration(0)
			if len(args) > 1 {
				days, err := strconv.Atoi(args[1])
				if err != nil || days <= 0 {
					fmt.Println("Usage: expiring [days]")
					continue
				}
				window = time.Duration(days) * 24 * time.Hour
			}
			records, err := pantry.Expiring(ctx, window)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			printRecords(records)
		case "remove":
			if len(args) < 2 {
				fmt.Println("Usage: remove <id>")
				continue
			}
			id, err := models.ParseID(args[1])
			if err != nil {
				fmt.Println("Bad id:", err)
				continue
			}
			if err := pantry.Remove(ctx, id); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Removed")
		case "clear":
			if err := pantry.Clear(ctx); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Pantry cleared")
		case "status":
			stats, err := pantry.Stats(ctx)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			state := "disarmed"
			if scheduler.Armed() {
				state = "armed, daily at " + scheduler.Time(ctx).String()
			}
			fmt.Printf("%d items, %d expiring soon; reminder %s\n", stats.Total, stats.ExpiringSoon, state)
		case "time":
			if len(args) < 2 {
				fmt.Println("Usage: time <hh:mm>")
				continue
			}
			var hour, minute int
			if _, err := fmt.Sscanf(args[1], "%d:%d", &hour, &minute); err != nil {
				fmt.Println("Usage: time <hh:mm>")
				continue
			}
			if scheduler.Reschedule(ctx, hour, minute) {
				fmt.Printf("Daily reminder moved to %02d:%02d\n", hour, minute)
			} else {
				fmt.Println("Could not schedule the reminder")
			}
		case "test":
			if scheduler.SendTest(ctx) {
				fmt.Println("Test notification sent")
			} else {
				fmt.Println("Could not send a test notification")
			}
		case "recipes":
			if recipes == nil {
				fmt.Println("Recipe service not configured (use -recipes)")
				continue
			}
			ingredients, err := pantry.Ingredients(ctx)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			if len(ingredients) == 0 {
				fmt.Println("Pantry is empty")
				continue
			}
			recipe, err := recipes.Suggest(ctx, ingredients)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println(recipe)
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func printRecords(records []models.Record) {
	if len(records) == 0 {
		fmt.Println("Nothing here")
		return
	}
	for _, rec := range records {
		expires := "no expiration"
		if rec.ExpiresAt != nil {
			expires = "expires " + time.UnixMilli(*rec.ExpiresAt).Format(dateLayout)
		}
		fmt.Printf("%s  %s (%s) — %s\n", rec.Identity(), rec.Title, rec.DisplayWeight(), expires)
	}
}

func parseDate(s string) (int64, error) {
	at, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return 0, err
	}
	return at.UnixMilli(), nil
}

// main parses command-line flags, wires the local stack and starts the shell.
func main() {
	var (
		store      string
		path       string
		lookupURL  string
		recipesURL string
		logLevel   string
		days       int
		showVer    bool
	)

	flag.StringVar(&store, "store", "file", "storage backend: file | sqlite")
	flag.StringVar(&path, "path", ".pantrypal", "storage path (directory for file, db file for sqlite)")
	flag.StringVar(&lookupURL, "lookup", "", "product lookup base URL")
	flag.StringVar(&recipesURL, "recipes", "", "recipe service base URL")
	flag.StringVar(&logLevel, "log", "Warn", "log level")
	flag.IntVar(&days, "days", 3, "expiring-soon window in days")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("PantryPal Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	zlog := logger.New()
	if err := zlog.Init(logLevel); err != nil {
		log.Fatal(err)
	}
	zapLogger := zlog.Log

	var blob blobstore.Store
	switch store {
	case "file":
		fileStore, err := blobstore.NewFile(path)
		if err != nil {
			log.Fatal(err)
		}
		blob = fileStore
	case "sqlite":
		sqliteStore, err := blobstore.OpenSQLite(path)
		if err != nil {
			log.Fatal(err)
		}
		defer func() { _ = sqliteStore.Close() }()
		blob = sqliteStore
	default:
		log.Fatalf("unknown storage backend: %s", store)
	}

	itemRepo := repository.NewItemRepository(blob)
	settingsRepo := repository.NewSettingsRepository(blob)

	platform := notify.NewLocal(zapLogger, true)
	platform.OnDeliver(func(c notify.Content) {
		fmt.Printf("\n[%s] %s\n", c.Title, c.Body)
	})

	window := time.Duration(days) * 24 * time.Hour
	scheduler := service.NewNotificationScheduler(itemRepo, settingsRepo, platform, window, zapLogger)
	if !scheduler.Initialize(context.Background()) {
		fmt.Println("Daily reminder is off")
	}

	var products lookup.ProductLookup
	if lookupURL != "" {
		products = lookup.NewHTTPLookup(http.DefaultClient, lookupURL)
	}
	var recipes *lookup.RecipeClient
	if recipesURL != "" {
		recipes = lookup.NewRecipeClient(http.DefaultClient, recipesURL)
	}

	pantry := service.NewPantryService(itemRepo, scheduler, products, window, zapLogger)

	repl(pantry, scheduler, recipes)

	_ = zapLogger.Sync()
}
