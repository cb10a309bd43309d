package main

import (
	"fmt"
	"log"

	"github.com/earlysteps/casetrack/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Prints the DDL GORM auto-migration generates for the models, used to keep
// data/initdb in sync.
func main() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		log.Fatal(err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Child{},
		&models.Milestone{},
		&models.Visit{},
		&models.Activity{},
	)
	if err != nil {
		log.Fatal(err)
	}

	var tables []string
	db.Raw("SELECT name FROM sqlite_master WHERE type='table'").Scan(&tables)

	for _, table := range tables {
		fmt.Printf("\n=== Table: %s ===\n", table)
		var schema string
		db.Raw(fmt.Sprintf("SELECT sql FROM sqlite_master WHERE name='%s'", table)).Scan(&schema)
		fmt.Println(schema)
	}
}
