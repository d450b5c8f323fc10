package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/kheaji/board/internal/blob"
	"github.com/kheaji/board/internal/db"
	"github.com/kheaji/board/internal/handlers"
	"github.com/kheaji/board/internal/render"
	"github.com/kheaji/board/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	port := getenv("PORT", "4000")
	databaseURL := getenv("DATABASE_URL", "")
	if databaseURL == "" {
		errorLog.Fatal("DATABASE_URL is required")
	}
	if os.Getenv("SESSION_SECRET") == "" {
		errorLog.Fatal("SESSION_SECRET is required")
	}
	uploadDir := getenv("UPLOAD_DIR", "./uploads")

	dbConn, err := db.Connect(databaseURL)
	if err != nil {
		errorLog.Fatalf("db connect: %v", err)
	}
	defer dbConn.Close()

	st := store.NewPostgres(dbConn)
	schemaCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = st.EnsureSchema(schemaCtx)
	cancel()
	if err != nil {
		errorLog.Fatalf("schema: %v", err)
	}

	images, err := blob.NewDiskStore(uploadDir, "/uploads")
	if err != nil {
		errorLog.Fatalf("blob store: %v", err)
	}

	rn, err := render.New(errorLog)
	if err != nil {
		errorLog.Fatalf("templates: %v", err)
	}

	h := handlers.New(st, st, images, rn, errorLog)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: h.Routes(uploadDir),
	}

	go func() {
		infoLog.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errorLog.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	infoLog.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		errorLog.Fatalf("server forced to shutdown: %v", err)
	}

	infoLog.Println("server exited")
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
