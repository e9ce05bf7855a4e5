package model

type RetrievalMethod string

const (
	RetrievalMethodVector   RetrievalMethod = "vector"
	RetrievalMethodNeighbor RetrievalMethod = "neighbor"
)

// RetrievalResult represents a chunk retrieved for a query
type RetrievalResult struct {
	Chunk           *Chunk          `json:"chunk"`
	Score           float64         `json:"score"`            // Cosine similarity score
	RetrievalMethod RetrievalMethod `json:"retrieval_method"` // How it was retrieved
}
