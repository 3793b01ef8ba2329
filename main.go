package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"notekeep/config"
	"notekeep/db"
	"notekeep/handlers"
	appmw "notekeep/middleware"
	"notekeep/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
	if cfg.DSN == "" {
		log.Fatal("DSN must be set")
	}

	database, err := db.Connect(cfg.DBDriver, cfg.DSN)
	if err != nil {
		log.Fatal("DB connection error:", err)
	}
	defer database.Close()

	h := handlers.New(store.New(database), []byte(cfg.JWTSecret))

	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Get("/logout", h.Logout)
	r.Post("/forgot-password", h.ForgotPassword)
	r.Get("/reset-password/{token}", h.CheckResetToken)
	r.Post("/reset-password/{token}", h.ResetPassword)

	r.Group(func(r chi.Router) {
		r.Use(appmw.RequireAuth([]byte(cfg.JWTSecret)))

		r.Get("/dashboard", h.Dashboard)

		r.Post("/notes/new", h.CreateNote)
		r.Get("/notes/{id}", h.GetNote)
		r.Post("/notes/{id}/edit", h.EditNote)
		r.Post("/notes/{id}/delete", h.DeleteNote)
		r.Post("/notes/{id}/pin", h.PinNote)
		r.Post("/notes/{id}/archive", h.ArchiveNote)
		r.Post("/notes/batch-action", h.BatchAction)

		r.Get("/categories", h.ListCategories)
		r.Post("/categories/new", h.CreateCategory)
		r.Post("/categories/{id}/delete", h.DeleteCategory)

		r.Get("/api/stats", h.Stats)
		r.Get("/export/notes", h.ExportNotes)
	})

	log.Printf("Server running on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		log.Fatal(err)
	}
}
