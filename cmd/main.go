package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/sevensons/ai-roles-bridge/internal/auth"
	"github.com/sevensons/ai-roles-bridge/internal/chat"
	"github.com/sevensons/ai-roles-bridge/internal/llm"
	"github.com/sevensons/ai-roles-bridge/internal/roles"
	"github.com/sevensons/ai-roles-bridge/internal/tasks"
)

func main() {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	// --- DB ---
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("db ping error: %v", err)
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-User-Id"},
	}))
	r.Use(auth.Middleware)

	// --- LLM gateway ---
	policy := llm.DefaultRetryPolicy()
	if n := envInt("LLM_MAX_RETRIES", -1); n >= 0 {
		policy.MaxRetries = uint64(n)
	}
	llmClient := llm.NewClient(policy)
	prober := llm.NewProber(llmClient)

	// --- Roles module ---
	rolesRepo := roles.NewRepo(db)
	rolesService := roles.NewService(rolesRepo, prober)
	rolesHandler := roles.NewHandler(rolesService)

	// --- Chat module ---
	delays := chat.DefaultDelayPolicy()
	interactions := chat.RandomInteractions{Probability: envFloat("INTERACTION_PROBABILITY", 0.25)}
	orch := chat.NewOrchestrator(llmClient, delays, interactions)

	chatRepo := chat.NewRepo(db)
	chatService := chat.NewService(chatRepo, rolesService, llmClient, orch, os.Getenv("AUTH_REQUIRED") == "true")
	chatHandler := chat.NewHandler(chatService)

	// --- Tasks module ---
	tasksRepo := tasks.NewRepo(db)
	tasksService := tasks.NewService(tasksRepo)
	tasksHandler := tasks.NewHandler(tasksService)

	llm.RegisterRoutes(r, llm.NewHandler(llmClient))
	roles.RegisterRoutes(r, rolesHandler)
	chat.RegisterRoutes(r, chatHandler)
	tasks.RegisterRoutes(r, tasksHandler)

	// --- health ---
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	log.Printf("listening on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func envInt(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(name string, fallback float64) float64 {
	if v := os.Getenv(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
