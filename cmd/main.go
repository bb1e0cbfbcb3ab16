package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/frscdev/offence-register/internal/auth"
	"github.com/frscdev/offence-register/internal/events"
	"github.com/frscdev/offence-register/internal/handlers"
	"github.com/frscdev/offence-register/internal/middleware"
	"github.com/frscdev/offence-register/internal/offence"
	"github.com/frscdev/offence-register/internal/payment"
	"github.com/frscdev/offence-register/internal/stats"
	"github.com/frscdev/offence-register/internal/store"
)

func openStore() (store.Store, error) {
	if os.Getenv("STORE_DRIVER") == "mongo" {
		client, err := store.ConnectMongo()
		if err != nil {
			return nil, err
		}
		database := os.Getenv("MONGO_DATABASE")
		if database == "" {
			database = "offence_register"
		}
		return store.NewMongoStore(client, database), nil
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "offences.db"
	}
	return store.NewBoltStore(dbPath)
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	ctx := context.Background()

	st, err := openStore()
	if err != nil {
		log.WithError(err).Fatal("Failed to open store")
	}
	defer st.Close(ctx)

	pubSub := events.NewPubSub(log.StandardLogger())
	defer pubSub.Close()

	repo, err := offence.NewRepository(ctx, st, pubSub)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialise offence repository")
	}

	recorder := stats.NewRecorder(repo)
	if err := recorder.Run(ctx, pubSub); err != nil {
		log.WithError(err).Fatal("Failed to start dashboard recorder")
	}

	authService, err := auth.NewService(st)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialise auth service")
	}

	gateway := payment.NewSimulatedGateway()

	authHandler := handlers.NewAuthHandler(authService)
	offenceHandler := handlers.NewOffenceHandler(repo, gateway)
	dashboardHandler := handlers.NewDashboardHandler(repo, recorder)

	router := handlers.NewRouter(
		authHandler,
		offenceHandler,
		dashboardHandler,
		middleware.NewAuthMiddleware(authService),
		middleware.NewRateLimitMiddleware(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.WithFields(log.Fields{
		"port":     port,
		"offences": len(repo.List()),
	}).Info("Offence register listening")

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.WithError(err).Fatal("Server error")
	}
}
