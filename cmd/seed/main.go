package main

import (
	"campushub/database"
	"campushub/internal/utils"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file from project root
	if err := godotenv.Load(); err != nil {
		// Try loading from parent directory (in case running from cmd/seed/)
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found: %v", err)
		}
	}
}

func main() {
	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	numUsers := seedCmd.Int("users", utils.DefaultNumUsers, "Number of dummy users to create")
	withArticles := seedCmd.Bool("articles", true, "Also seed sample articles per partition")

	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "seed":
		seedCmd.Parse(os.Args[2:])
		database.ConnectDatabase()
		if err := database.MigrateDatabase(); err != nil {
			log.Fatalf("Error running migrations: %v", err)
		}

		log.Printf("Seeding %d users...", *numUsers)
		if err := utils.SeedUsers(database.DB, *numUsers); err != nil {
			log.Fatalf("Error seeding users: %v", err)
		}
		if *withArticles {
			if err := utils.SeedArticles(database.DB); err != nil {
				log.Fatalf("Error seeding articles: %v", err)
			}
		}

	case "clear":
		database.ConnectDatabase()
		log.Println("Clearing seeded test data...")
		if err := utils.ClearTestData(database.DB); err != nil {
			log.Fatalf("Error clearing test data: %v", err)
		}

	case "stats":
		database.ConnectDatabase()
		counts, err := utils.GetCounts(database.DB)
		if err != nil {
			log.Fatalf("Error getting stats: %v", err)
		}
		log.Println("Database statistics:")
		for table, count := range counts {
			log.Printf("   %s: %d", table, count)
		}

	case "help":
		printHelp()

	default:
		fmt.Printf("Unknown subcommand: %s\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Database utility tool for CampusHub")
	fmt.Println("\nUsage:")
	fmt.Println("  db-tool COMMAND [OPTIONS]")
	fmt.Println("\nCommands:")
	fmt.Println("  seed         Create test users and sample articles")
	fmt.Println("               Options:")
	fmt.Println("                 --users=N        Number of dummy users to create (default: 20)")
	fmt.Println("                 --articles=BOOL  Also seed sample articles (default: true)")
	fmt.Println("")
	fmt.Println("  clear        Delete seeded users and their content")
	fmt.Println("  stats        Show row counts per table")
	fmt.Println("  help         Show this help message")
	fmt.Println("")
	fmt.Println("Environment variables:")
	fmt.Println("  DB_HOST      Database host")
	fmt.Println("  DB_PORT      Database port")
	fmt.Println("  DB_USER      Database user")
	fmt.Println("  DB_PASSWORD  Database password")
	fmt.Println("  DB_NAME      Database name")
	fmt.Println("  DB_SSLMODE   Database SSL mode")
}
