// Command treceval computes standard TREC evaluation metrics (MAP, P@k,
// recall, R-precision, reciprocal rank) from a qrels file and a run file,
// printing them in trec_eval's output format.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/bobyangg/CSI4107-A1/internal/runstore"
	"github.com/bobyangg/CSI4107-A1/internal/trec"
	"github.com/bobyangg/CSI4107-A1/pkg/config"
	"github.com/bobyangg/CSI4107-A1/pkg/logger"
	"github.com/bobyangg/CSI4107-A1/pkg/postgres"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-store] qrels_file results_file\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	store := flag.Bool("store", false, "record aggregate metrics in the Postgres run store")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 2 {
		usage()
		os.Exit(2)
	}
	logger.Setup(os.Getenv("IR_LOGGING_LEVEL"), os.Getenv("IR_LOGGING_FORMAT"))

	qrelsPath := flag.Arg(0)
	resultsPath := flag.Arg(1)

	qrels, err := trec.ReadQrelsFile(qrelsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	results, err := trec.ReadRunFile(resultsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	agg, perQuery := trec.Evaluate(qrels, results)
	if err := trec.WriteReport(os.Stdout, agg, perQuery); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *store {
		if err := saveEvaluation(qrelsPath, resultsPath, agg); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

func saveEvaluation(qrelsPath, resultsPath string, agg trec.Aggregate) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	client, err := postgres.New(cfg.Postgres)
	if err != nil {
		return fmt.Errorf("connecting to run store: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s, err := runstore.New(ctx, client)
	if err != nil {
		return err
	}
	return s.SaveEvaluation(ctx, qrelsPath, resultsPath, agg)
}
