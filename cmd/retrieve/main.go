// Command retrieve builds the inverted index over the configured corpus and
// runs every configured BM25 experiment, writing one TREC results file per
// experiment.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bobyangg/CSI4107-A1/internal/analytics"
	"github.com/bobyangg/CSI4107-A1/internal/corpus"
	"github.com/bobyangg/CSI4107-A1/internal/indexer"
	"github.com/bobyangg/CSI4107-A1/internal/indexer/tokenizer"
	"github.com/bobyangg/CSI4107-A1/internal/runstore"
	"github.com/bobyangg/CSI4107-A1/internal/searcher"
	"github.com/bobyangg/CSI4107-A1/internal/searcher/cache"
	"github.com/bobyangg/CSI4107-A1/internal/searcher/ranker"
	"github.com/bobyangg/CSI4107-A1/internal/trec"
	"github.com/bobyangg/CSI4107-A1/pkg/config"
	pkgkafka "github.com/bobyangg/CSI4107-A1/pkg/kafka"
	"github.com/bobyangg/CSI4107-A1/pkg/logger"
	"github.com/bobyangg/CSI4107-A1/pkg/metrics"
	"github.com/bobyangg/CSI4107-A1/pkg/postgres"
	pkgredis "github.com/bobyangg/CSI4107-A1/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting retrieval run",
		"corpus", cfg.Corpus.Documents,
		"queries", cfg.Corpus.Queries,
		"experiments", len(cfg.Experiments),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.Metrics.Enabled {
		shutdown := metrics.StartServer(cfg.Metrics.Port)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}()
	}

	stopwords := corpus.LoadStopwords(cfg.Corpus.Stopwords)
	analyzer := tokenizer.New(stopwords, cfg.Tokenizer.Stemming)

	keep := searcher.QueryFilter(cfg.Ranking.QueryFilter)
	queries, err := corpus.ReadQueries(cfg.Corpus.Queries, keep)
	if err != nil {
		slog.Error("failed to read queries", "error", err)
		os.Exit(1)
	}
	slog.Info("queries loaded", "count", len(queries), "filter", cfg.Ranking.QueryFilter)

	var resultCache *cache.ResultCache
	if cfg.Cache.Enabled {
		redisClient, err := pkgredis.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, result caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			resultCache = cache.New(redisClient, cfg.Redis.CacheTTL.Std())
			slog.Info("result cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL.Std())
		}
	}

	var collector *analytics.Collector
	if cfg.Analytics.Enabled {
		producer := pkgkafka.NewProducer(cfg.Kafka)
		defer producer.Close()
		collector = analytics.NewCollector(producer, 1000, m)
		collector.Start(ctx)
		defer collector.Close()
		slog.Info("analytics collector started", "topic", cfg.Kafka.Topic)
	}

	var store *runstore.Store
	if cfg.RunStore.Enabled {
		pgClient, err := postgres.New(cfg.Postgres)
		if err != nil {
			slog.Warn("postgres unavailable, run history disabled", "error", err)
		} else {
			defer pgClient.Close()
			store, err = runstore.New(ctx, pgClient)
			if err != nil {
				slog.Warn("runstore init failed, run history disabled", "error", err)
				store = nil
			}
		}
	}

	params := ranker.Params{K1: cfg.BM25.K1, B: cfg.BM25.B}
	for _, exp := range cfg.Experiments {
		if err := runExperiment(ctx, cfg, exp, analyzer, params, queries, resultCache, collector, store, m); err != nil {
			slog.Error("experiment failed", "run_tag", exp.RunTag, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("all experiments complete")
}

func runExperiment(
	ctx context.Context,
	cfg *config.Config,
	exp config.ExperimentConfig,
	analyzer *tokenizer.Analyzer,
	params ranker.Params,
	queries []corpus.Query,
	resultCache *cache.ResultCache,
	collector *analytics.Collector,
	store *runstore.Store,
	m *metrics.Metrics,
) error {
	slog.Info("starting experiment", "run_tag", exp.RunTag, "full_text", exp.FullText, "output", exp.Output)
	start := time.Now()

	builder := indexer.NewBuilder(analyzer, exp.FullText)
	ix, err := builder.Build(indexer.FileSource(cfg.Corpus.Documents))
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}
	m.IndexBuildDuration.WithLabelValues(exp.RunTag).Observe(time.Since(start).Seconds())
	m.DocsIndexedTotal.Add(float64(ix.Stats.Docs))
	m.TokensIndexedTotal.Add(float64(ix.Stats.TotalTokens))

	fingerprint := fmt.Sprintf("%s|k1=%g|b=%g|stem=%t|full=%t|topK=%d",
		exp.RunTag, params.K1, params.B, cfg.Tokenizer.Stemming, exp.FullText, cfg.Ranking.TopK)

	pipeline := &searcher.Pipeline{
		Analyzer:    analyzer,
		Index:       ix,
		Params:      params,
		TopK:        cfg.Ranking.TopK,
		Workers:     cfg.Ranking.Workers,
		RunTag:      exp.RunTag,
		Fingerprint: fingerprint,
		Cache:       resultCache,
		Collector:   collector,
		Metrics:     m,
	}
	ranked, err := pipeline.Run(ctx, queries)
	if err != nil {
		return fmt.Errorf("ranking queries: %w", err)
	}

	var results []trec.Result
	for _, qr := range ranked {
		for _, doc := range qr.Docs {
			results = append(results, trec.Result{
				QueryID: qr.QueryID,
				DocID:   doc.DocID,
				Rank:    doc.Rank,
				Score:   doc.Score,
			})
		}
	}
	if err := trec.WriteRunFile(exp.Output, results, exp.RunTag); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	m.ResultsWrittenTotal.Add(float64(len(results)))
	slog.Info("experiment complete",
		"run_tag", exp.RunTag,
		"results", len(results),
		"duration", time.Since(start),
	)

	if store != nil {
		rec := runstore.RunRecord{
			RunTag:       exp.RunTag,
			Fingerprint:  fingerprint,
			Docs:         ix.Stats.Docs,
			AvgDocLength: ix.Stats.AvgDocLength,
			Queries:      len(queries),
			Results:      len(results),
			Duration:     time.Since(start),
		}
		if err := store.SaveRun(ctx, rec); err != nil {
			slog.Warn("failed to record run", "run_tag", exp.RunTag, "error", err)
		}
	}
	return nil
}
