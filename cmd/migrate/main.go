package main

import (
	"flag"
	"log"

	"prompt-library-be/internal/config"
	"prompt-library-be/pkg/database"
)

func main() {
	rollback := flag.Bool("rollback", false, "revert the most recent migration instead of migrating")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewGormDB(database.NewGormConfig(cfg))
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	if *rollback {
		log.Println("Rolling back last migration...")
		if err := database.RollbackLast(db); err != nil {
			log.Fatal("Error: ", err)
		}
		log.Println("Rollback completed")
		return
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Error: ", err)
	}
	log.Println("Migrations completed")
}
