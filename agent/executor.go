package agent

import (
	"context"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/multiflexhq/multiflex/rag"
	"github.com/multiflexhq/multiflex/search"
	"go.uber.org/zap"
)

// Tags under which executor failures are recorded in Knowledge.Failed.
const (
	failedSearch    = "search"
	failedImages    = "images"
	failedDocuments = "documents"
)

// Executor runs the retrieval legs a route calls for. Legs run concurrently
// and fail independently: a dead search backend yields an empty, tagged
// result for that leg while the others still land.
type Executor struct {
	web     search.WebSearcher
	images  search.ImageSearcher
	docs    rag.Retriever
	timeout time.Duration
}

func NewExecutor(web search.WebSearcher, images search.ImageSearcher, docs rag.Retriever, timeout time.Duration) *Executor {
	return &Executor{web: web, images: images, docs: docs, timeout: timeout}
}

// Execute fans out the legs the route selects and collects one Delta.
func (e *Executor) Execute(ctx context.Context, route Route, prompt, userID string) Delta {
	delta := Delta{
		GeneratedImages: make(map[string]string),
		Failed:          make(map[string]string),
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var (
		webTask   <-chan async.Result[[]search.WebResult]
		imageTask <-chan async.Result[[]search.ImageResult]
		docTask   <-chan async.Result[[]rag.ChunkModel]
	)

	switch route {
	case RouteSearchAndImages:
		webTask = e.searchWeb(ctx, prompt)
		imageTask = e.searchImages(ctx, prompt)
	case RouteSearchOnly:
		webTask = e.searchWeb(ctx, prompt)
	case RouteImagesOnly:
		imageTask = e.searchImages(ctx, prompt)
	case RouteRagEnhanced:
		webTask = e.searchWeb(ctx, prompt)
		imageTask = e.searchImages(ctx, prompt)
		docTask = e.retrieveDocs(ctx, prompt, userID)
	case RouteRagOnly:
		docTask = e.retrieveDocs(ctx, prompt, userID)
	case RouteNone:
		return delta
	default:
		logger.Error("Unknown route, retrieving nothing", zap.String("route", string(route)))
		return delta
	}

	// Await each leg separately so one failure cannot discard the others.
	if webTask != nil {
		if results, err := async.Await(webTask); err != nil {
			logger.Error("Web search failed", zap.Error(err))
			delta.Failed[failedSearch] = err.Error()
		} else {
			delta.Search = results
		}
	}

	if imageTask != nil {
		if results, err := async.Await(imageTask); err != nil {
			logger.Error("Image search failed", zap.Error(err))
			delta.Failed[failedImages] = err.Error()
		} else {
			delta.Images = results
		}
	}

	if docTask != nil {
		if results, err := async.Await(docTask); err != nil {
			logger.Error("Document retrieval failed", zap.Error(err))
			delta.Failed[failedDocuments] = err.Error()
		} else {
			delta.Docs = results
		}
	}

	logger.Info("Retrieval round complete",
		zap.String("route", string(route)),
		zap.Int("search", len(delta.Search)),
		zap.Int("images", len(delta.Images)),
		zap.Int("docs", len(delta.Docs)),
		zap.Int("failed", len(delta.Failed)))
	return delta
}

func (e *Executor) searchWeb(ctx context.Context, query string) <-chan async.Result[[]search.WebResult] {
	return async.Go(func() ([]search.WebResult, error) {
		return e.web.Search(ctx, query)
	})
}

func (e *Executor) searchImages(ctx context.Context, query string) <-chan async.Result[[]search.ImageResult] {
	return async.Go(func() ([]search.ImageResult, error) {
		return e.images.SearchImages(ctx, query)
	})
}

func (e *Executor) retrieveDocs(ctx context.Context, query, userID string) <-chan async.Result[[]rag.ChunkModel] {
	return async.Go(func() ([]rag.ChunkModel, error) {
		return e.docs.Retrieve(ctx, query, userID)
	})
}
