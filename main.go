package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/multiflexhq/multiflex/agent"
	"github.com/multiflexhq/multiflex/appconfig"
	"github.com/multiflexhq/multiflex/htmlgen"
	"github.com/multiflexhq/multiflex/llm"
	"github.com/multiflexhq/multiflex/rag"
	"github.com/multiflexhq/multiflex/search"
	"github.com/multiflexhq/multiflex/server"
	"github.com/multiflexhq/multiflex/session"
	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

func main() {
	dotenv.LoadEnv()

	ccfg := &appconfig.AppConfig{}
	if err := config.LoadConfig("config.ini", ccfg); err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	mongoClient := odm.ProvideMongoClient()
	chunkColl := odm.CollectionOf[rag.ChunkModel](mongoClient, ccfg.Database)

	big, mini := buildLLMClients(ccfg)

	ddg := search.NewDuckDuckGoClient()
	imagen := search.NewImagenClient()

	annColl, ollamaCli := buildVectorSearch(ccfg, mongoClient)
	store := rag.NewStore(chunkColl, annColl, ollamaCli, mini)
	chunker := rag.NewChunker()

	retrievalTimeout := time.Duration(ccfg.RetrievalTimeoutSeconds) * time.Second
	if retrievalTimeout <= 0 {
		retrievalTimeout = 20 * time.Second
	}

	uiAgent := agent.NewUIAgent(
		agent.NewRouter(mini),
		agent.NewExecutor(ddg, ddg, store, retrievalTimeout),
		agent.NewDesigner(big, ddg, imagen),
		agent.NewImplementer(big),
		agent.NewSynthesizer(big),
		store,
		ccfg.TwoStageSynthesis,
	)

	sessions := session.NewStore(time.Duration(ccfg.SessionTTLMinutes) * time.Minute)
	controller := htmlgen.NewController(htmlgen.NewGenerator(big, ddg), sessions)

	srv := server.New(ccfg.HTTPPort, ccfg.CorsOrigins, uiAgent, store, chunker, controller)

	ctx := getCancellableContext()
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down")
		_ = srv.Shutdown()
	}()

	logger.Info("Starting MultiFlex API",
		zap.String("port", ccfg.HTTPPort),
		zap.String("provider", ccfg.LLMProvider),
		zap.Bool("twoStage", ccfg.TwoStageSynthesis))
	if err := srv.Run(); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

// buildLLMClients returns the big model for synthesis and the mini model
// for routing and grading.
func buildLLMClients(ccfg *appconfig.AppConfig) (big, mini llm.LLMClient) {
	switch ccfg.LLMProvider {
	case "groq":
		return llm.NewGroqClient(ccfg.GroqModel), llm.NewGroqClient(ccfg.GroqMiniModel)
	case "ollama":
		return llm.NewOllamaClient(ccfg.OllamaModel), llm.NewOllamaClient(ccfg.OllamaMiniModel)
	case "anthropic", "":
		return llm.NewAnthropicClient(ccfg.AnthropicModel), llm.NewAnthropicClient(ccfg.AnthropicMiniModel)
	default:
		logger.Fatal("Unknown llm_provider", zap.String("provider", ccfg.LLMProvider))
		return nil, nil
	}
}

// buildVectorSearch wires the embedding leg of document retrieval. Both
// values are nil when vector search is disabled; the store then runs
// term-search only.
func buildVectorSearch(ccfg *appconfig.AppConfig, mongoClient odm.MongoClient) (odm.OdmCollectionInterface[rag.ChunkAnnModel], *api.Client) {
	if !ccfg.VectorSearchEnabled {
		return nil, nil
	}

	ollamaCli, err := api.ClientFromEnvironment()
	if err != nil {
		logger.Fatal("Failed to create Ollama client", zap.Error(err))
	}

	return odm.CollectionOf[rag.ChunkAnnModel](mongoClient, ccfg.Database), ollamaCli
}

func getCancellableContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		cancel()
	}()

	return ctx
}
