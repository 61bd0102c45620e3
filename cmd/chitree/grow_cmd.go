package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/arbolado/chitree"
	"github.com/arbolado/chitree/dataset"
	"github.com/arbolado/chitree/dataset/sqldataset"
	"github.com/arbolado/chitree/feature/yaml"
	"github.com/arbolado/chitree/report"
	"github.com/arbolado/chitree/report/redisreport"
	"github.com/arbolado/chitree/stats"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/redis.v5"
)

type growCmdConfig struct {
	*rootCmdConfig
	dataInput     string
	testInput     string
	metadataInput string
	table         string
	maxDBConns    int
	trainRatio    float64
	seed          int64
	significance  float64
	pValue        string
	splitter      string
	parallel      bool
	workers       int
	maxDepth      int
	printTree     bool
	reportRedis   string
	reportKey     string
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of data and evaluate it",
		Long: `Grow a tree from a set of data to predict the label feature described in the
metadata, and evaluate its accuracy against a test set: either the one given
or the part of the data left out of training.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fail(1, err)
			}
			_, err = config.run(context.Background(), cmd.OutOrStdout())
			if err != nil {
				fail(2, err)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to use to grow the tree (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the features available on the input (required)")
	cmd.PersistentFlags().StringVar(&(config.testInput), "test", "", "path or URL with data to test the tree against, in the same formats as input (defaults to a part of the input)")
	cmd.PersistentFlags().StringVar(&(config.table), "table", sqldataset.DefaultTable, "name of the SQL table or MongoDB collection holding the samples")
	cmd.PersistentFlags().IntVar(&(config.maxDBConns), "max-db-conns", 0, "limit to SQLite3 connections opened at a time (defaults to 0: no limit)")
	cmd.PersistentFlags().Float64Var(&(config.trainRatio), "train-ratio", 0.6, "fraction of the shuffled input used to grow the tree when no test data is given, the rest is used to test it")
	cmd.PersistentFlags().Int64Var(&(config.seed), "seed", 0, "seed for shuffling the input (defaults to 0: seed from the current time)")
	cmd.PersistentFlags().Float64Var(&(config.significance), "significance", chitree.DefaultSignificance, "maximum p-value for a split to be considered significant")
	cmd.PersistentFlags().StringVar(&(config.pValue), "p-value", stats.Density.String(), "how the chi-squared statistic is turned into a p-value: density or survival")
	cmd.PersistentFlags().StringVar(&(config.splitter), "splitter", "chi-squared", "strategy to choose splits, the following are valid: chi-squared, gain:[MINIMUM]")
	cmd.PersistentFlags().BoolVar(&(config.parallel), "parallel", false, "grow sibling subtrees concurrently")
	cmd.PersistentFlags().IntVar(&(config.workers), "workers", 0, "limit to goroutines growing subtrees when parallel (defaults to 0: GOMAXPROCS)")
	cmd.PersistentFlags().IntVar(&(config.maxDepth), "max-depth", 0, "maximum number of nodes from the root to any leaf (defaults to 0: no limit)")
	cmd.PersistentFlags().BoolVar(&(config.printTree), "print-tree", false, "print the grown tree")
	cmd.PersistentFlags().StringVar(&(config.reportRedis), "report-redis", "", "address of a Redis server to store the report on")
	cmd.PersistentFlags().StringVar(&(config.reportKey), "report-key", "chitree", "prefix of the Redis keys reports are stored on")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if gcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if gcc.testInput == "" && (gcc.trainRatio <= 0 || gcc.trainRatio >= 1) {
		return fmt.Errorf("train-ratio flag must be greater than 0 and lower than 1, got %v", gcc.trainRatio)
	}
	if gcc.significance <= 0 || gcc.significance > 1 {
		return fmt.Errorf("significance flag must be greater than 0 and not greater than 1, got %v", gcc.significance)
	}
	if _, err := parseTest(gcc.pValue); err != nil {
		return err
	}
	if gcc.maxDepth < 0 {
		return fmt.Errorf("max-depth flag cannot be negative")
	}
	return nil
}

func (gcc *growCmdConfig) run(ctx context.Context, out io.Writer) (*report.Report, error) {
	md, err := yaml.ReadMetadataFromFile(gcc.metadataInput)
	if err != nil {
		return nil, err
	}
	schema, err := dataset.NewSchema(md.Features)
	if err != nil {
		return nil, err
	}
	input := source{gcc.dataInput, gcc.table, gcc.maxDBConns}
	samples, err := input.readSamples(ctx, md, schema)
	if err != nil {
		return nil, fmt.Errorf("reading samples from %v: %w", input, err)
	}
	var train, test []dataset.Sample
	if gcc.testInput == "" {
		seed := gcc.seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		train, test, err = dataset.Split(dataset.Shuffle(samples, rand.New(rand.NewSource(seed))), gcc.trainRatio)
		if err != nil {
			return nil, err
		}
	} else {
		train = samples
		testSource := source{gcc.testInput, gcc.table, gcc.maxDBConns}
		test, err = testSource.readSamples(ctx, md, schema)
		if err != nil {
			return nil, fmt.Errorf("reading test samples from %v: %w", testSource, err)
		}
	}
	splitter, err := gcc.newSplitter(md)
	if err != nil {
		return nil, err
	}
	pot := chitree.New(md.Attributes, md.Label, md.Labels, splitter)
	pot.Parallel = gcc.parallel
	pot.Workers = gcc.workers
	pot.MaxDepth = gcc.maxDepth

	log.Info().
		Int("samples", len(train)).
		Int("features", len(md.Attributes)).
		Str("label", md.Label.Name()).
		Msg("Growing tree")
	start := time.Now()
	t, err := pot.Grow(ctx, dataset.New(train))
	if err != nil {
		return nil, fmt.Errorf("growing the tree: %w", err)
	}
	duration := time.Since(start)
	if gcc.printTree {
		fmt.Fprint(out, t)
	}
	accuracy, err := t.Test(test)
	if err != nil {
		return nil, fmt.Errorf("testing the tree: %w", err)
	}
	r := &report.Report{
		Name:         fmt.Sprintf("%s-%d", filepath.Base(input.String()), start.Unix()),
		Dataset:      input.String(),
		Label:        md.Label.Name(),
		TrainSamples: len(train),
		TestSamples:  len(test),
		Nodes:        t.NodeCount(),
		Depth:        t.Depth(),
		Accuracy:     accuracy,
		Duration:     duration,
	}
	reporter := report.Reporter(report.NewLogReporter(log.Logger))
	if gcc.reportRedis != "" {
		rc := redis.NewClient(&redis.Options{Addr: gcc.reportRedis})
		defer rc.Close()
		reporter = report.Multi(reporter, redisreport.New(rc, gcc.reportKey))
	}
	if err = reporter.Report(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (gcc *growCmdConfig) newSplitter(md *yaml.Metadata) (chitree.Splitter, error) {
	parsed := strings.SplitN(gcc.splitter, ":", 2)
	switch parsed[0] {
	case "chi-squared":
		test, err := parseTest(gcc.pValue)
		if err != nil {
			return nil, err
		}
		return &chitree.ChiSquaredSplitter{
			Positive:  md.Positive,
			Threshold: gcc.significance,
			Test:      test,
		}, nil
	case "gain":
		gs := &chitree.GainSplitter{}
		if len(parsed) > 1 {
			minimum, err := strconv.ParseFloat(parsed[1], 64)
			if err != nil {
				return nil, fmt.Errorf("parsing gain splitter minimum: %w", err)
			}
			gs.MinimumGain = minimum
		}
		return gs, nil
	}
	return nil, fmt.Errorf("unknown splitter %s", gcc.splitter)
}

func parseTest(name string) (stats.Test, error) {
	for _, t := range []stats.Test{stats.Density, stats.Survival} {
		if t.String() == name {
			return t, nil
		}
	}
	return stats.Density, fmt.Errorf("unknown p-value %q, expected density or survival", name)
}
