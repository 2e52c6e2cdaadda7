package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"petpal_server/realtime"
	"petpal_server/routes"
	"petpal_server/services"
	"petpal_server/socket"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load environment variables from .env when present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	// Initialize DynamoDB client and document store
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	store := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Change-notification hub backing all live subscriptions
	hub := realtime.NewHub()

	// Initialize Services
	userService := &services.UserService{Store: store, Hub: hub}
	presenceService := &services.PresenceService{Store: store, Hub: hub, OnlineTTL: presenceTTLFromEnv()}
	invitationService := &services.InvitationService{Store: store, Hub: hub}
	sessionService := &services.SessionService{Store: store, Hub: hub}

	// Self-heal stale "online" flags left behind by crashed clients
	presenceService.StartJanitor(context.Background())

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to PetPal")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterUserRoutes(r, userService)
	routes.RegisterPresenceRoutes(r, presenceService)
	routes.RegisterInvitationRoutes(r, invitationService, sessionService)
	routes.RegisterSessionRoutes(r, sessionService)
	routes.RegisterS3Routes(r)

	// Realtime gateway for live subscriptions
	socketServer := socket.NewSocketServer(presenceService, invitationService, sessionService)
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()
	r.Handle("/socket.io/", socketServer)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}

func presenceTTLFromEnv() time.Duration {
	raw := os.Getenv("PRESENCE_TTL_SECONDS")
	if raw == "" {
		return services.DefaultOnlineTTL
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		log.Printf("Invalid PRESENCE_TTL_SECONDS %q, using default", raw)
		return services.DefaultOnlineTTL
	}
	return time.Duration(seconds) * time.Second
}
