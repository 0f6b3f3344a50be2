// cmd/adduser/main.go
// Creates or updates an API user in the database.
//
// Usage:
//
//	go run ./cmd/adduser -username padraic -password testing
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/padraicbc/raceprogram/config"
	bundb "github.com/padraicbc/raceprogram/db"
	"github.com/padraicbc/raceprogram/handlers"
	"github.com/padraicbc/raceprogram/models"
)

func main() {
	username := flag.String("username", "", "username (required)")
	password := flag.String("password", "", "plain-text password (required)")
	flag.Parse()

	hash, err := handlers.HashPasswordForUser(*username, *password)
	if err != nil {
		log.Fatal("adduser: ", err)
	}

	cfg := config.Load()
	db := bundb.Setup(cfg)
	defer db.Close()

	if err := bundb.CreateTables(context.Background(), db); err != nil {
		log.Fatal("create tables:", err)
	}

	user := &models.User{
		Username: strings.TrimSpace(*username),
		Password: hash,
	}

	_, err = db.NewInsert().Model(user).
		On("CONFLICT (username) DO UPDATE SET password = EXCLUDED.password").
		Exec(context.Background())
	if err != nil {
		log.Fatal("insert user:", err)
	}

	fmt.Printf("user %q saved\n", user.Username)
}
