package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/joho/godotenv"
	"github.com/vvakame/typeddoc/internal/mockapi"
)

func main() {
	err := realMain()
	if err != nil {
		log.Fatal(err)
	}
}

func realMain() error {
	logger := stdr.New(log.Default())

	if err := godotenv.Load(); err != nil {
		logger.V(1).Info("no .env file, using the environment")
	}

	srv := handler.NewDefaultServer(mockapi.New(mockapi.NewSeededStore()))
	mux := http.NewServeMux()
	mux.Handle("/", playground.Handler("nuber eats mock", "/query"))
	mux.Handle("/query", mockapi.TokenMiddleware(srv))

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := fmt.Sprintf(":%s", port)

	logger.Info("listening server", "addr", addr)

	err := http.ListenAndServe(addr, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(logr.NewContext(r.Context(), logger))
		mux.ServeHTTP(w, r)
	}))
	if err != nil {
		return err
	}

	return nil
}
