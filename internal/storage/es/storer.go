package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"

	"github.com/DjordjeVuckovic/sortbench/internal/bench/runner"
)

type Storer struct {
	client    *elasticsearch.TypedClient
	indexName string
}

// Document is one measurement row, denormalised with its run metadata.
type Document struct {
	ID            string    `json:"id"`
	RunID         string    `json:"run_id"`
	StartedAt     time.Time `json:"started_at"`
	GoVersion     string    `json:"go_version"`
	OS            string    `json:"os"`
	Arch          string    `json:"arch"`
	NumCPU        int       `json:"num_cpu"`
	Seed          int64     `json:"seed"`
	Dataset       string    `json:"dataset"`
	Size          int       `json:"size"`
	Algorithm     string    `json:"algorithm"`
	Status        string    `json:"status"`
	Repeat        int       `json:"repeat"`
	Number        int       `json:"number"`
	MinSeconds    *float64  `json:"min_s,omitempty"`
	MedianSeconds *float64  `json:"median_s,omitempty"`
	MaxSeconds    *float64  `json:"max_s,omitempty"`
	IndexedAt     time.Time `json:"indexed_at"`
}

func NewStorer(ctx context.Context, config ClientConfig) (*Storer, error) {
	if config.IndexName == "" {
		config.IndexName = DefaultIndexName
	}

	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	storer := &Storer{
		client:    client,
		indexName: config.IndexName,
	}
	if err := storer.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}
	return storer, nil
}

// SaveRun bulk indexes one document per row. Re-saving a run overwrites its
// documents since ids are derived from run id and row position.
func (e *Storer) SaveRun(ctx context.Context, run *runner.Run) error {
	if len(run.Rows) == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         e.indexName,
		Client:        e.client,
		NumWorkers:    2,
		FlushBytes:    5e+6, // 5MB
		FlushInterval: 30 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var successful, failed atomic.Int64
	now := time.Now().UTC()

	for i, row := range run.Rows {
		doc := toDocument(run, i, row, now)

		docBytes, err := json.Marshal(doc)
		if err != nil {
			slog.Error("failed to marshal document", "error", err, "id", doc.ID)
			failed.Add(1)
			continue
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: doc.ID,
			Body:       bytes.NewReader(docBytes),
			OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
				successful.Add(1)
			},
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failed.Add(1)
				if err != nil {
					slog.Error("bulk index error", "error", err, "id", item.DocumentID)
				} else {
					slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
				}
			},
		})
		if err != nil {
			failed.Add(1)
			slog.Error("failed to add document to bulk indexer", "error", err, "id", doc.ID)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	slog.Info("run indexed in elasticsearch",
		"id", run.ID,
		"successful", successful.Load(),
		"failed", failed.Load(),
		"index", e.indexName)

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("failed to index %d out of %d measurements", n, len(run.Rows))
	}
	return nil
}

func toDocument(run *runner.Run, pos int, row runner.Row, indexedAt time.Time) Document {
	doc := Document{
		ID:        fmt.Sprintf("%s-%d", run.ID, pos),
		RunID:     run.ID.String(),
		StartedAt: run.StartedAt,
		GoVersion: run.Env.GoVersion,
		OS:        run.Env.OS,
		Arch:      run.Env.Arch,
		NumCPU:    run.Env.NumCPU,
		Seed:      run.Config.Seed,
		Dataset:   string(row.Dataset),
		Size:      row.Size,
		Algorithm: string(row.Algorithm),
		Status:    string(row.Status),
		Repeat:    row.Params.Repeat,
		Number:    row.Params.Number,
		IndexedAt: indexedAt,
	}
	if lo, med, hi, ok := row.Seconds(); ok {
		doc.MinSeconds, doc.MedianSeconds, doc.MaxSeconds = &lo, &med, &hi
	}
	return doc
}

func (e *Storer) EnsureIndex(ctx context.Context) error {
	exists, err := e.client.Indices.Exists(e.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		slog.Debug("index already exists", "index", e.indexName)
		return nil
	}

	mappings := types.TypeMapping{
		Properties: map[string]types.Property{
			"id":         types.NewKeywordProperty(),
			"run_id":     types.NewKeywordProperty(),
			"started_at": types.NewDateProperty(),
			"go_version": types.NewKeywordProperty(),
			"os":         types.NewKeywordProperty(),
			"arch":       types.NewKeywordProperty(),
			"num_cpu":    types.NewIntegerNumberProperty(),
			"seed":       types.NewLongNumberProperty(),
			"dataset":    types.NewKeywordProperty(),
			"size":       types.NewIntegerNumberProperty(),
			"algorithm":  types.NewKeywordProperty(),
			"status":     types.NewKeywordProperty(),
			"repeat":     types.NewIntegerNumberProperty(),
			"number":     types.NewIntegerNumberProperty(),
			"min_s":      types.NewDoubleNumberProperty(),
			"median_s":   types.NewDoubleNumberProperty(),
			"max_s":      types.NewDoubleNumberProperty(),
			"indexed_at": types.NewDateProperty(),
		},
	}

	res, err := e.client.Indices.Create(e.indexName).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if !res.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("index created", "index", e.indexName)
	return nil
}

func (e *Storer) Close() error {
	return nil
}
