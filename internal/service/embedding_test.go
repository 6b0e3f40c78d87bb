package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/recipe-buddy/backend/internal/types"
)

func TestGenerateEmbedding(t *testing.T) {
	v := GenerateEmbedding("Rice Bowl")

	assert.Equal(t, []float32{9, 3, 5}, v.Slice())
	assert.Len(t, GenerateEmbedding("").Slice(), EmbeddingDimensions)
	assert.Equal(t, GenerateEmbedding("PASTA").Slice(), GenerateEmbedding("pasta").Slice())
}

func TestRecipeEmbedding(t *testing.T) {
	r := types.Recipe{Title: "Toast", Summary: "Crunchy", Ingredients: []string{"bread"}}

	assert.Equal(t, GenerateEmbedding("Toast Crunchy bread").Slice(), RecipeEmbedding(r).Slice())
}
