package service

import (
	"strings"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/pageza/recipe-buddy/backend/internal/types"
)

// EmbeddingDimensions is the length of vectors produced by GenerateEmbedding.
const EmbeddingDimensions = 3

// GenerateEmbedding returns a simple deterministic embedding for the given text.
// This implementation counts the total length, vowels and consonants.
func GenerateEmbedding(text string) pgvector.Vector {
	text = strings.ToLower(text)
	var vowels, consonants float32
	for _, r := range text {
		if strings.ContainsRune("aeiou", r) {
			vowels++
		} else if r >= 'a' && r <= 'z' {
			consonants++
		}
	}
	length := float32(len(text))
	return pgvector.NewVector([]float32{length, vowels, consonants})
}

// RecipeEmbedding embeds the searchable text of a recipe.
func RecipeEmbedding(r types.Recipe) pgvector.Vector {
	return GenerateEmbedding(r.Title + " " + r.Summary + " " + strings.Join(r.Ingredients, " "))
}
