package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	paperrag "github.com/siherrmann/paperrag"
	"github.com/siherrmann/paperrag/helper"
	"github.com/siherrmann/paperrag/llm"
	"github.com/siherrmann/paperrag/server"
)

const embeddingDim = 384 // all-MiniLM-L6-v2

func main() {
	godotenv.Load()

	dbConfig, err := helper.NewDatabaseConfiguration()
	if err != nil {
		log.Fatalf("error loading database configuration: %v", err)
	}

	rag, err := paperrag.NewPaperRag(dbConfig, embeddingDim)
	if err != nil {
		log.Fatalf("error initializing paperrag: %v", err)
	}
	defer rag.Close()

	if err := rag.UseDefaultPipeline(); err != nil {
		log.Fatalf("error initializing pipeline: %v", err)
	}

	ollama := llm.NewClient(llm.NewConfigFromEnv())
	if err := rag.SetGenerate(ollama.Generate); err != nil {
		log.Fatalf("error initializing generation: %v", err)
	}

	router := server.NewRouter(rag)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("error running server: %v", err)
	}
}
