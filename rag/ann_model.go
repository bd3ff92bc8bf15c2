package rag

import (
	"github.com/SaiNageswarS/go-api-boot/odm"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ChunkAnnModel holds the embedding for one chunk, keyed by the chunk id so
// vector hits join back to the text collection.
type ChunkAnnModel struct {
	ChunkID   string      `json:"chunkId" bson:"_id"`
	Embedding bson.Vector `json:"-" bson:"embedding"`
}

func (m ChunkAnnModel) Id() string { return m.ChunkID }

func (m ChunkAnnModel) CollectionName() string { return "chunk_ann_index" }

// Indexes
func (m ChunkAnnModel) VectorIndexSpecs() []odm.VectorIndexSpec {
	return []odm.VectorIndexSpec{
		{
			Name:          VectorIndexName,
			Path:          VectorPath,
			Type:          "vector",
			NumDimensions: EmbeddingDimensions,
			Similarity:    "cosine",
			Quantization:  "scalar",
		},
	}
}

const (
	VectorIndexName = "chunkEmbeddingIndex"
	VectorPath      = "embedding"
)
