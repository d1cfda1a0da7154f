package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dileep-u-k/coach-gateway/internal/cache"
	"github.com/dileep-u-k/coach-gateway/internal/coach"
	"github.com/dileep-u-k/coach-gateway/internal/intent"
	"github.com/dileep-u-k/coach-gateway/internal/knowledge"
	"github.com/dileep-u-k/coach-gateway/internal/llm"
	"github.com/dileep-u-k/coach-gateway/internal/observe"
	"github.com/dileep-u-k/coach-gateway/internal/orchestrator"
	"github.com/dileep-u-k/coach-gateway/internal/tools"
)

// main is the composition root: it loads configuration, builds every
// service, and runs the HTTP server until a shutdown signal arrives.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	buildInfo := GetBuildInfo()
	log.Printf("🚀 Starting Coach Gateway | Version: %s | Commit: %s", buildInfo.Version, buildInfo.GitCommit)

	// 1. LOAD CONFIGURATION
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("❌ FATAL: Configuration Error: %v", err)
	}
	log.Println("✅ Configuration loaded.")

	// 2. INITIALIZE SERVICES
	ctx := context.Background()
	observer := observe.NewLogObserver(os.Stdout, cfg.LogLevel, cfg.LogFormat == "json")
	store, closeStore, err := initializeCache(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ FATAL: %v", err)
	}
	defer closeStore()

	generator, err := initializeGenerators(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ FATAL: %v", err)
	}

	registry, err := initializeTools(cfg)
	if err != nil {
		log.Fatalf("❌ FATAL: %v", err)
	}

	classifier, err := intent.NewClassifier(intent.MergeRules(intent.DefaultRules(), cfg.Tunables.Intent.ExtraRules))
	if err != nil {
		log.Fatalf("❌ FATAL: Invalid intent rules: %v", err)
	}

	orch := orchestrator.New(registry,
		orchestrator.WithObserver(observer),
		orchestrator.WithExternalTimeout(cfg.Tunables.Product.Timeout),
	)

	opts := []coach.Option{
		coach.WithObserver(observer),
		coach.WithResponseCache(store),
		coach.WithConfig(coach.Config{
			Model:             cfg.Tunables.Generation.Model,
			Temperature:       cfg.Tunables.Generation.Temperature,
			MaxTokens:         cfg.Tunables.Generation.MaxTokens,
			KnowledgeTimeout:  cfg.Tunables.Knowledge.Timeout,
			ResponseCacheTTL:  cfg.Tunables.ResponseCacheTTL,
			GenerationTimeout: cfg.Tunables.Generation.Timeout,
		}),
	}
	generatorName := ""
	if generator != nil {
		opts = append(opts, coach.WithGenerator(generator))
		generatorName = generator.Name()
	}
	if cfg.KnowledgeURL != "" {
		kc, err := knowledge.NewClient(knowledge.Config{
			BaseURL:  cfg.KnowledgeURL,
			APIKey:   cfg.KnowledgeKey,
			TopK:     cfg.Tunables.Knowledge.TopK,
			MinScore: cfg.Tunables.Knowledge.MinScore,
			Timeout:  cfg.Tunables.Knowledge.Timeout,
			CacheTTL: cfg.Tunables.Knowledge.CacheTTL,
		}, store)
		if err != nil {
			log.Fatalf("❌ FATAL: Could not create knowledge client: %v", err)
		}
		opts = append(opts, coach.WithKnowledge(kc))
		log.Printf("✅ Knowledge service configured at %s.", cfg.KnowledgeURL)
	} else {
		log.Println("WARNING: KNOWLEDGE_API_URL not set, answers will carry no reference passages.")
	}

	service := coach.NewService(classifier, orch, opts...)
	gatewayHandler := NewGatewayHandler(service, registry, generatorName, buildInfo)
	log.Println("✅ All services initialized.")

	// 3. SETUP AND RUN THE WEB SERVER
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}
	engine := gin.Default()
	gatewayHandler.Register(engine)

	srv := &http.Server{Addr: fmt.Sprintf(":%s", cfg.Port), Handler: engine}
	runServerWithGracefulShutdown(srv)
}

// initializeCache connects to Redis when configured and falls back to an
// in-process cache otherwise.
func initializeCache(ctx context.Context, cfg *AppConfig) (cache.Cache, func(), error) {
	if cfg.RedisAddr == "" {
		log.Println("WARNING: REDIS_ADDR not set, using in-memory cache.")
	} else {
		rdb, err := cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err == nil {
			log.Printf("✅ Connected to Redis at %s.", cfg.RedisAddr)
			return rdb, func() {
				if err := rdb.Close(); err != nil {
					log.Printf("WARNING: Failed to close Redis client: %v", err)
				}
			}, nil
		}
		log.Printf("WARNING: Could not connect to Redis at %s, using in-memory cache: %v", cfg.RedisAddr, err)
	}
	mem, err := cache.NewMemory()
	if err != nil {
		return nil, nil, err
	}
	return mem, mem.Close, nil
}

// initializeGenerators builds the configured providers in preference order.
// A provider without an API key is skipped; with none left, the gateway runs
// without generation and only /analyze answers.
func initializeGenerators(ctx context.Context, cfg *AppConfig) (llm.TextGenerator, error) {
	var generators []llm.TextGenerator
	for _, provider := range cfg.Providers {
		var (
			g   llm.TextGenerator
			err error
		)
		switch provider {
		case llm.ProviderGemini:
			if cfg.GeminiAPIKey == "" {
				log.Println("WARNING: GEMINI_API_KEY not set, skipping Gemini.")
				continue
			}
			g, err = llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.Tunables.Generation.Model)
		case llm.ProviderOpenAI:
			if cfg.OpenAIAPIKey == "" {
				log.Println("WARNING: OPENAI_API_KEY not set, skipping OpenAI.")
				continue
			}
			g, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Tunables.Generation.Model, cfg.Tunables.Generation.Timeout)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create %s client: %w", provider, err)
		}
		generators = append(generators, g)
	}
	if len(generators) == 0 {
		log.Println("WARNING: No text generator configured; /api/v1/chat will return 503.")
		return nil, nil
	}
	router, err := llm.NewRouter(generators...)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Text generation via %s.", router.Name())
	return router, nil
}

// initializeTools registers the built-in tools, plus product lookup when a
// catalog is configured.
func initializeTools(cfg *AppConfig) (*tools.Registry, error) {
	var catalog tools.Catalog
	if cfg.ProductURL != "" {
		c, err := tools.NewHTTPCatalog(cfg.ProductURL, cfg.ProductKey, cfg.Tunables.Product.Timeout)
		if err != nil {
			return nil, fmt.Errorf("failed to create product catalog: %w", err)
		}
		catalog = c
	}
	registry := tools.DefaultRegistry(catalog, cfg.TargetOptions())
	log.Printf("✅ Tool registry initialized with %d tools.", registry.Count())
	return registry, nil
}

// runServerWithGracefulShutdown handles the server lifecycle.
func runServerWithGracefulShutdown(srv *http.Server) {
	go func() {
		log.Printf("👂 Gateway is listening on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Listen error: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server shutdown failed:", err)
	}

	log.Println("👋 Server exited gracefully.")
}
