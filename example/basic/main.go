package main

import (
	"context"
	"fmt"
	"log"

	paperrag "github.com/siherrmann/paperrag"
	"github.com/siherrmann/paperrag/core/pipeline"
	"github.com/siherrmann/paperrag/helper"
)

const samplePaper = `## Abstract

This paper proposes a retrieval-grounded pipeline for analyzing scientific papers.

## Introduction

Reading papers end to end is slow. The motivation for this research is to answer
questions about a paper from its most relevant passages only.

## Method

The proposed method consists of chunking the converted paper text, embedding the
chunks into a per-document vector index and retrieving the best matches for each
analysis query.

## Limitations

The limitations of this approach are the dependency on text extraction quality
and the fixed context budget of the generation step.`

// converter that passes text through unchanged, for demo input that is
// already plain text
type textConverter struct{}

func (c textConverter) Convert(data []byte) (string, error) {
	return string(data), nil
}

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	p, err := paperrag.NewPaperRag(dbConfig, 384)
	if err != nil {
		log.Fatalf("Failed to create paperrag: %v", err)
	}
	defer p.Close()

	// Set up the pipeline (markdown chunking + embeddings)
	p.SetConverter(textConverter{})
	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		log.Fatalf("Failed to create embedder: %v", err)
	}
	p.SetPipeline(pipeline.NewPipeline(pipeline.MarkdownChunker(600, 100), embedder))

	// A canned generation capability so the example runs without Ollama.
	// Use llm.NewClient(llm.NewConfigFromEnv()).Generate for real answers.
	err = p.SetGenerate(func(ctx context.Context, prompt string) (string, error) {
		return "Example answer grounded in the retrieved context.", nil
	})
	if err != nil {
		log.Fatalf("Failed to set generation: %v", err)
	}

	// Upload the document and build its index
	fmt.Println("Ingesting document...")
	doc, numChunks, err := p.UploadDocument(context.Background(), "sample_paper.txt", []byte(samplePaper))
	if err != nil {
		log.Fatalf("Failed to upload document: %v", err)
	}
	fmt.Printf("Document inserted with ID: %s\n", doc.RID)
	fmt.Printf("Inserted %d chunks\n", numChunks)

	// Generate the analysis sections (cached after the first call)
	sections, err := p.AnalyzeSections(context.Background(), doc.RID)
	if err != nil {
		log.Fatalf("Failed to analyze sections: %v", err)
	}
	fmt.Printf("\nGenerated %d sections:\n", len(sections))
	for category, section := range sections {
		fmt.Printf("\n--- %s ---\n%s\nSource chunks: %v\n", category, section.Content, section.SourceChunks)
	}

	// Ask a grounded question
	question := "What method does the paper propose?"
	fmt.Printf("\nQuestion: %s\n", question)

	answer, err := p.Chat(context.Background(), doc.RID, question)
	if err != nil {
		log.Fatalf("Failed to chat: %v", err)
	}
	fmt.Printf("Answer: %s\n", answer.Answer)
	for _, source := range answer.Sources {
		fmt.Printf("Source: %s chunk %d\n", source.Source, source.ChunkIndex)
	}

	fmt.Println("\nBasic example completed successfully!")
}
