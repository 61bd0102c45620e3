package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/arbolado/chitree/dataset"
	"github.com/arbolado/chitree/dataset/sqldataset"
	"github.com/arbolado/chitree/feature/yaml"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type splitCmdConfig struct {
	*rootCmdConfig
	setInput         string
	metadataInput    string
	setOutput        string
	splitOutput      string
	table            string
	maxDBConns       int
	splitProbability int
	seed             int64
}

func splitCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &splitCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a set into two sets",
		Long:  `Split a set into an output set and a split set, for instance to keep a test set apart`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fail(1, err)
			}
			outputCount, splitCount, err := config.run(context.Background())
			if err != nil {
				fail(2, err)
			}
			log.Info().
				Int("samples", outputCount+splitCount).
				Int("output", outputCount).
				Int("split", splitCount).
				Msg("Set split")
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.setInput), "input", "i", "", "path to an input CSV or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the set to split (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the features available on the input (required)")
	cmd.PersistentFlags().StringVarP(&(config.setOutput), "output", "o", "", "path or URL to dump the output set to, in the same formats as input (defaults to STDOUT, as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.splitOutput), "split-output", "s", "", "path or URL to dump the split set to, in the same formats as input (required)")
	cmd.PersistentFlags().IntVarP(&(config.splitProbability), "split-probability", "p", 20, "probability as percent integer that a sample of the set will be assigned to the split set")
	cmd.PersistentFlags().StringVar(&(config.table), "table", sqldataset.DefaultTable, "name of the SQL table or MongoDB collection holding the samples")
	cmd.PersistentFlags().IntVar(&(config.maxDBConns), "max-db-conns", 0, "limit to SQLite3 connections opened at a time (defaults to 0: no limit)")
	cmd.PersistentFlags().Int64Var(&(config.seed), "seed", 0, "seed for assigning samples (defaults to 0: seed from the current time)")
	return cmd
}

func (scc *splitCmdConfig) Validate() error {
	if scc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if scc.splitOutput == "" {
		return fmt.Errorf("required split-output flag was not set")
	}
	if scc.splitProbability <= 0 || scc.splitProbability > 100 {
		return fmt.Errorf("split-probability flag was set to an invalid value: it must be set to an integer between 1 and 100")
	}
	return nil
}

func (scc *splitCmdConfig) run(ctx context.Context) (int, int, error) {
	md, err := yaml.ReadMetadataFromFile(scc.metadataInput)
	if err != nil {
		return 0, 0, err
	}
	schema, err := dataset.NewSchema(md.Features)
	if err != nil {
		return 0, 0, err
	}
	input := source{scc.setInput, scc.table, scc.maxDBConns}
	samples, err := input.readSamples(ctx, md, schema)
	if err != nil {
		return 0, 0, fmt.Errorf("reading samples from %v: %w", input, err)
	}
	seed := scc.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	randomizer := rand.New(rand.NewSource(seed))
	var output, split []dataset.Sample
	for _, s := range samples {
		if (100 * randomizer.Float32()) > float32(scc.splitProbability) {
			output = append(output, s)
		} else {
			split = append(split, s)
		}
	}
	outputCount, err := source{scc.setOutput, scc.table, scc.maxDBConns}.writeSamples(ctx, md, output)
	if err != nil {
		return 0, 0, fmt.Errorf("writing output set: %w", err)
	}
	splitCount, err := source{scc.splitOutput, scc.table, scc.maxDBConns}.writeSamples(ctx, md, split)
	if err != nil {
		return outputCount, 0, fmt.Errorf("writing split set: %w", err)
	}
	return outputCount, splitCount, nil
}
