// @title           DocuChat API
// @version         1.0
// @description     Asynchronous question answering over uploaded documents.
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/data/store"
	jobmodel "github.com/smahat/docuchat/internal/domain/jobModel"
	"github.com/smahat/docuchat/internal/domain/queryModel"
	"github.com/smahat/docuchat/internal/handlers"
	"github.com/smahat/docuchat/internal/job"
	"github.com/smahat/docuchat/internal/rag"
	"github.com/smahat/docuchat/internal/rag/docstore"
	"github.com/smahat/docuchat/internal/rag/embedding"
	"github.com/smahat/docuchat/internal/rag/embedding/googleEmbedding"
	"github.com/smahat/docuchat/internal/rag/embedding/openaiEmbedding"
	"github.com/smahat/docuchat/internal/rag/llm/gemini"
	"github.com/smahat/docuchat/internal/rag/memory"
	"github.com/smahat/docuchat/internal/rag/vectorindex"
	"github.com/smahat/docuchat/internal/rag/vectorindex/qdrantIndex"
	"github.com/smahat/docuchat/internal/server"
	"github.com/smahat/docuchat/internal/worker"
	"github.com/smahat/docuchat/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	_ = godotenv.Load()

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//redis-backed stores with in-memory fallbacks
	var jobStore jobmodel.JobStore
	if rs := store.GetRedisJobStore(serviceContext); rs != nil {
		jobStore = rs
	} else {
		logger.Error("Redis job store is offline, using in-memory store")
		jobStore = store.InitInMemoryJobStore()
	}

	var turnStore queryModel.TurnStore
	if rs := store.GetRedisTurnStore(serviceContext); rs != nil {
		turnStore = rs
	} else {
		logger.Error("Redis turn store is offline, using in-memory store")
		turnStore = store.InitInMemoryTurnStore()
	}

	var cacheStore queryModel.ResponseCacheStore
	if rs := store.GetRedisCacheStore(serviceContext); rs != nil {
		cacheStore = rs
	} else {
		logger.Error("Redis cache store is offline, using in-memory store")
		cacheStore = store.InitInMemoryCacheStore()
	}

	var documentStore docstore.Store
	if rs := docstore.GetRedisDocStore(serviceContext); rs != nil {
		documentStore = rs
	} else {
		logger.Error("Redis document store is offline, using in-memory store")
		documentStore = docstore.InitInMemoryStore()
	}

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          jobStore,
		TurnStore:         turnStore,
	}
	logger.Info("Starting job service")
	service := job.InitJobService(serviceConfig)

	//embeddings: OpenAI when configured, Google otherwise
	var embedder embedding.Embedder
	if e := openaiEmbedding.GetOpenAIEmbeddingClient(serviceContext, config.OpenAIEmbeddingModel); e != nil {
		embedder = e
	} else if e := googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, os.Getenv("GEMINI_API_KEY")); e != nil {
		embedder = e
	}

	//the vector index is optional; without it retrieval degrades to the
	//text scan strategies
	var index vectorindex.Index
	if embedder != nil {
		if q := qdrantIndex.GetQdrantIndex(serviceContext, embedder); q != nil {
			index = q
		}
	}
	if index == nil {
		logger.Warn("Vector index unavailable, running with text scan retrieval only")
	}

	llmProvider := gemini.GetGeminiClient(serviceContext, config.GeminiModelName, os.Getenv("GEMINI_API_KEY"))
	if llmProvider == nil {
		logger.Error("LLM provider failed to initialize. Shutting down.")
		return
	}

	conversationMemory := memory.New(turnStore, cacheStore)
	ragService := rag.NewService(documentStore, index, conversationMemory, llmProvider)

	handlers.InitJobHandler(service)
	handlers.InitDocumentHandler(documentStore, index)

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
