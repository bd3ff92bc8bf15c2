package rag

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/multiflexhq/multiflex/llm"
	"github.com/multiflexhq/multiflex/prompts"
	"github.com/ollama/ollama/api"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	retrieveLimit = 6

	// per-engine hit count before fusion
	searchK = 20
)

// Retriever is the document retrieval capability the executors consume.
type Retriever interface {
	Retrieve(ctx context.Context, query, owner string) ([]ChunkModel, error)
	HasDocuments(ctx context.Context, owner string) bool
}

// Store is the per-user document store. Writes to the chunk collection are
// serialized; reads filter by owner before relevance grading. When an ann
// collection and an Ollama client are wired in, retrieval fuses term and
// vector hits; otherwise it runs term-search only.
type Store struct {
	coll    odm.OdmCollectionInterface[ChunkModel]
	annColl odm.OdmCollectionInterface[ChunkAnnModel]
	ollama  *api.Client
	grader  llm.LLMClient

	writeMu sync.Mutex
}

// UserDocumentsInfo summarizes what a user has uploaded.
type UserDocumentsInfo struct {
	TotalChunks  int            `json:"total_chunks"`
	Files        []string       `json:"files"`
	ChunksByFile map[string]int `json:"chunks_by_file"`
}

func NewStore(
	coll odm.OdmCollectionInterface[ChunkModel],
	annColl odm.OdmCollectionInterface[ChunkAnnModel],
	ollama *api.Client,
	grader llm.LLMClient,
) *Store {
	return &Store{coll: coll, annColl: annColl, ollama: ollama, grader: grader}
}

func (s *Store) vectorEnabled() bool {
	return s.annColl != nil && s.ollama != nil
}

// Ingest saves chunks to the store. The collection is multi-writer; the
// mutex serializes concurrent uploads against it. Embeddings are best
// effort: a chunk whose embedding fails still lands in the text index.
func (s *Store) Ingest(ctx context.Context, chunks []ChunkModel) error {
	if len(chunks) == 0 {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for _, chunk := range chunks {
		if _, err := async.Await(s.coll.Save(ctx, chunk)); err != nil {
			return status.Errorf(codes.Internal, "save chunk: %v", err)
		}
		if s.vectorEnabled() {
			s.embedChunk(ctx, chunk)
		}
	}

	logger.Info("Ingested chunks",
		zap.Int("count", len(chunks)),
		zap.String("userId", chunks[0].UserID),
		zap.String("filename", chunks[0].Filename))
	return nil
}

func (s *Store) embedChunk(ctx context.Context, chunk ChunkModel) {
	emb, err := embedOnce(ctx, s.ollama, chunk.Text)
	if err != nil {
		logger.Error("Failed to embed chunk, text index only",
			zap.String("chunkId", chunk.ChunkID), zap.Error(err))
		return
	}

	ann := ChunkAnnModel{ChunkID: chunk.ChunkID, Embedding: bson.NewVector(emb)}
	if _, err := async.Await(s.annColl.Save(ctx, ann)); err != nil {
		logger.Error("Failed to save chunk embedding",
			zap.String("chunkId", chunk.ChunkID), zap.Error(err))
	}
}

// Retrieve finds chunks relevant to query, scoped to owner. Term and vector
// hits are fused by reciprocal rank, owner-filtered, then graded for
// relevance one by one with the mini model. A candidate whose grading call
// fails is kept, trading retrieval precision for availability. A vector leg
// failure degrades to term hits alone.
func (s *Store) Retrieve(ctx context.Context, query, owner string) ([]ChunkModel, error) {
	textTask := s.coll.TermSearch(ctx, query, odm.TermSearchParams{
		IndexName: TextSearchIndexName,
		Path:      TextSearchPaths,
		Limit:     searchK,
	})

	var vectorRanks map[string]int
	if s.vectorEnabled() {
		vectorRanks = s.vectorRanks(ctx, query)
	}

	hits, err := async.Await(textTask)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "term search: %v", err)
	}

	cache := make(map[string]ChunkModel, len(hits))
	textIDs := make([]string, 0, len(hits))
	for _, h := range hits {
		cache[h.Doc.ChunkID] = h.Doc
		textIDs = append(textIDs, h.Doc.ChunkID)
	}

	fused := fuseRanks(rankByPosition(textIDs), vectorRanks, searchK)
	all := s.fetchChunks(ctx, cache, fused)

	// Ownership filter comes before grading. Never grade (or return)
	// another user's text.
	candidates := make([]ChunkModel, 0, len(all))
	for _, c := range all {
		if c.UserID == owner {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) > retrieveLimit {
		candidates = candidates[:retrieveLimit]
	}

	relevant := s.gradeAll(ctx, query, candidates)

	logger.Info("Retrieved chunks",
		zap.String("owner", owner),
		zap.Int("candidates", len(candidates)),
		zap.Int("relevant", len(relevant)))
	return relevant, nil
}

// vectorRanks embeds the query and ranks ann hits. Any failure on this leg
// returns nil so fusion falls through to the text ranking.
func (s *Store) vectorRanks(ctx context.Context, query string) map[string]int {
	emb, err := embedOnce(ctx, s.ollama, query)
	if err != nil {
		logger.Error("Query embedding failed, term search only", zap.Error(err))
		return nil
	}

	hits, err := async.Await(s.annColl.VectorSearch(ctx, emb, odm.VectorSearchParams{
		IndexName:     VectorIndexName,
		Path:          VectorPath,
		K:             searchK,
		NumCandidates: 100,
	}))
	if err != nil {
		logger.Error("Vector search failed, term search only", zap.Error(err))
		return nil
	}

	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.Doc.ChunkID)
	}
	return rankByPosition(ids)
}

// fetchChunks materializes fused ids in ranking order. Text hits come from
// the cache; vector-only ids need one batched lookup.
func (s *Store) fetchChunks(ctx context.Context, cache map[string]ChunkModel, rankedIDs []string) []ChunkModel {
	var missing []string
	for _, id := range rankedIDs {
		if _, ok := cache[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		found, err := async.Await(s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": missing}}, nil, 0, 0))
		if err != nil {
			logger.Error("Failed to fetch vector-only chunks", zap.Error(err))
			// continue with what the cache has
		}
		for _, c := range found {
			cache[c.ChunkID] = c
		}
	}

	ordered := make([]ChunkModel, 0, len(rankedIDs))
	for _, id := range rankedIDs {
		if c, ok := cache[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered
}

// gradeAll filters candidates by relevance. A chunk whose grading call
// fails stays in; only an explicit "no" drops it.
func (s *Store) gradeAll(ctx context.Context, query string, candidates []ChunkModel) []ChunkModel {
	relevant := make([]ChunkModel, 0, len(candidates))
	for _, c := range candidates {
		keep, err := s.gradeRelevance(ctx, query, c.Text)
		if err != nil {
			logger.Error("Relevance grading failed, keeping chunk",
				zap.String("chunkId", c.ChunkID), zap.Error(err))
			keep = true
		}
		if keep {
			relevant = append(relevant, c)
		}
	}
	return relevant
}

// gradeRelevance asks the mini model for a binary yes/no on one chunk.
func (s *Store) gradeRelevance(ctx context.Context, question, document string) (bool, error) {
	systemPrompt, userPrompt, err := prompts.RenderGradeRelevancePrompt(question, document)
	if err != nil {
		return false, err
	}

	var response strings.Builder
	err = s.grader.GenerateInference(ctx,
		[]llm.Message{{Role: "user", Content: userPrompt}},
		func(chunk string) error {
			response.WriteString(chunk)
			return nil
		},
		llm.WithSystemPrompt(systemPrompt),
		llm.WithTemperature(0.0),
		llm.WithMaxTokens(64),
	)
	if err != nil {
		return false, err
	}

	return parseGrade(response.String())
}

func parseGrade(response string) (bool, error) {
	var grade struct {
		Score string `json:"score"`
	}

	response = strings.TrimSpace(response)
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || start >= end {
		return false, status.Error(codes.Internal, "no JSON grade in response")
	}

	if err := json.Unmarshal([]byte(response[start:end+1]), &grade); err != nil {
		return false, status.Errorf(codes.Internal, "unmarshal grade: %v", err)
	}

	return strings.EqualFold(grade.Score, "yes"), nil
}

// HasDocuments reports whether owner has any ingested chunks. Used as the
// routing hint for RAG-aware decisions.
func (s *Store) HasDocuments(ctx context.Context, owner string) bool {
	chunks, err := async.Await(s.coll.Find(ctx, bson.M{"userId": owner}, nil, 1, 0))
	if err != nil {
		logger.Error("Failed to check user documents", zap.String("owner", owner), zap.Error(err))
		return false
	}
	return len(chunks) > 0
}

// Info returns per-file chunk counts for owner.
func (s *Store) Info(ctx context.Context, owner string) (*UserDocumentsInfo, error) {
	chunks, err := async.Await(s.coll.Find(ctx, bson.M{"userId": owner}, nil, 0, 0))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "find chunks: %v", err)
	}

	info := &UserDocumentsInfo{ChunksByFile: make(map[string]int)}
	for _, c := range chunks {
		info.ChunksByFile[c.Filename]++
	}
	info.TotalChunks = len(chunks)
	for f := range info.ChunksByFile {
		info.Files = append(info.Files, f)
	}
	sort.Strings(info.Files)

	return info, nil
}
