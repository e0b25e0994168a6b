package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sqlc-dev/pqtype"

	"github.com/saeidalz13/battleship-solo/api"
	"github.com/saeidalz13/battleship-solo/db"
	"github.com/saeidalz13/battleship-solo/db/sqlc"
	"github.com/saeidalz13/battleship-solo/internal"
)

func main() {
	if os.Getenv("STAGE") != api.StageProd {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("no .env file loaded:", err)
		}
	}
	stage := os.Getenv("STAGE")
	if stage != api.StageDev && stage != api.StageProd {
		panic("stage must be either dev or prod")
	}

	opts := []api.Option{api.WithStage(stage)}

	if portEnv := os.Getenv("PORT"); portEnv != "" {
		port, err := strconv.Atoi(portEnv)
		if err != nil {
			panic(err)
		}
		opts = append(opts, api.WithPort(port))
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		opts = append(opts, api.WithAllowedOrigins(strings.Split(origins, ",")...))
	}

	// Without a database games live in memory and nothing is counted
	if psqlUrl := os.Getenv("DATABASE_URL"); psqlUrl != "" {
		conn := db.MustConnectToDb(psqlUrl, db.DefaultMigrationDir)
		defer conn.Close()

		serverIp := pqtype.Inet{IPNet: internal.ServerIpNet(), Valid: true}
		dbManager := sqlc.NewDbManager(sqlc.New(conn), serverIp)
		opts = append(opts, api.WithStore(dbManager.Games), api.WithAnalytics(dbManager.Analytics))
	} else {
		log.Println("DATABASE_URL not set; saved games are kept in memory")
	}

	server := api.NewServer(opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.SessionManager.CleanupPeriodically(ctx)

	log.Printf("Listening to port %d\n", server.Port())
	log.Fatalln(http.ListenAndServe(server.Addr(), server.Handler()))
}
