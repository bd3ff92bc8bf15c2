package rag

import (
	"github.com/SaiNageswarS/go-api-boot/odm"
)

// ChunkModel is one retrievable unit of an uploaded document. Chunks are
// exclusively scoped to the uploading user; every read path filters by
// UserID before anything else sees the text.
type ChunkModel struct {
	ChunkID     string `json:"chunkId" bson:"_id"`
	UserID      string `json:"userId" bson:"userId"`
	Filename    string `json:"filename" bson:"filename"`
	FileType    string `json:"fileType" bson:"fileType"` // e.g. "txt", "md"
	Text        string `json:"text" bson:"text"`
	WindowIndex int    `json:"windowIndex" bson:"windowIndex"` // position within the source file
}

func (m ChunkModel) Id() string { return m.ChunkID }

func (m ChunkModel) CollectionName() string { return "chunks" }

// Indexes
func (m ChunkModel) TermSearchIndexSpecs() []odm.TermSearchIndexSpec {
	return []odm.TermSearchIndexSpec{
		{
			Name:  TextSearchIndexName,
			Paths: TextSearchPaths,
		},
	}
}

const TextSearchIndexName = "chunkTextIndex"

var TextSearchPaths = []string{"text", "filename"}
