package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"privco_valuation/pkg/api/valuation"
)

func main() {
	// Load environment variables
	godotenv.Load()

	handler := valuation.NewHandler()

	http.HandleFunc("/api/valuation/analyze", handler.HandleAnalyze)
	http.HandleFunc("/api/valuation/report", handler.HandleMarkdown)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8085"
	}

	fmt.Printf("Valuation API listening on %s\n", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal(err)
	}
}
