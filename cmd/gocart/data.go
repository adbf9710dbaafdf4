package main

import (
	"path/filepath"
	"strings"

	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/core/dataset/extractors"
	"github.com/YuminosukeSato/gocart/pkg/log"
)

// extractor picks a reader by file extension. .ndjson and .jsonl files are
// read as JSON arrays per line, anything else as CSV with a header row.
func extractor(path string) (extractors.Extractor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ndjson", ".jsonl":
		ex, err := extractors.NewNDJSONArray(path, 0, 0)
		if err != nil {
			return nil, err
		}
		return ex, nil
	default:
		return extractors.NewCSV(path, 0, 0), nil
	}
}

// readDataset extracts the records at path and builds them with schema.
func readDataset(schema *dataset.Schema, path string) (dataset.Dataset, error) {
	ex, err := extractor(path)
	if err != nil {
		return nil, err
	}
	records, err := ex.Extract()
	if err != nil {
		return nil, err
	}
	ds, err := schema.Build(records)
	if err != nil {
		return nil, err
	}
	log.GetLoggerWithName("cli").Debug("dataset loaded",
		log.SourceKey, path,
		log.SamplesKey, ds.NumSamples(),
		log.FeaturesKey, ds.NumFeatures(),
	)
	return ds, nil
}
