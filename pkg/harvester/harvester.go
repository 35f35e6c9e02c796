// Package harvester orchestrates a full pass: work list in, artifacts and
// checkpoint records out.
package harvester

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"urlharvest/internal/scheduler"
	"urlharvest/pkg/checkpoint"
	"urlharvest/pkg/classifier"
	"urlharvest/pkg/config"
	"urlharvest/pkg/extractor"
	"urlharvest/pkg/fetcher"
	"urlharvest/pkg/logger"
	"urlharvest/pkg/models"
	"urlharvest/pkg/ratelimit"
	"urlharvest/pkg/rewrite"
	"urlharvest/pkg/storage"
	"urlharvest/pkg/worklist"
)

// Harvester wires the fetcher, classifier, extractor, artifact store, and
// checkpoint store together and drives them through the worker pool.
type Harvester struct {
	cfg        *config.Config
	client     *fetcher.Client
	scanner    *extractor.Scanner
	classifier *classifier.Classifier
	limiter    ratelimit.Limiter
	logger     logger.Logger

	// set per pass in Run
	store     *checkpoint.Store
	artifacts *storage.Manager
}

// Summary reports a completed pass.
type Summary struct {
	Total     int
	Skipped   int
	Processed int
	Counts    map[models.Kind]int
	Elapsed   time.Duration
}

// New creates a Harvester from configuration.
func New(cfg *config.Config) (*Harvester, error) {
	log := logger.GetLogger()

	scanner := extractor.NewScanner(cfg.Harvest.PayloadTag, cfg.Harvest.PayloadClass)

	var limiter ratelimit.Limiter = ratelimit.Unlimited{}
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, time.Minute)
	}

	return &Harvester{
		cfg:        cfg,
		client:     fetcher.New(cfg.Fetch.Timeout, cfg.Fetch.UserAgent, log),
		scanner:    scanner,
		classifier: classifier.New(cfg.Harvest.NotFoundMarker, scanner),
		limiter:    limiter,
		logger:     log,
	}, nil
}

// Run executes one full pass over the work list. Already-checkpointed
// URLs are skipped; everything else is dispatched across the worker
// budget. The pass only fails on checkpoint store I/O errors.
func (h *Harvester) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	urls, err := worklist.Load(h.cfg.Harvest.InputList)
	if err != nil {
		return nil, err
	}

	store, err := checkpoint.Open(h.cfg.Harvest.CheckpointFile, h.logger)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	h.store = store

	artifacts, err := storage.NewManager(h.cfg.Harvest.ArtifactDir, h.cfg.Harvest.ArtifactSuffix)
	if err != nil {
		return nil, err
	}
	h.artifacts = artifacts

	var pending []scheduler.Job
	for i, url := range urls {
		if store.Has(url) {
			continue
		}
		pending = append(pending, scheduler.Job{Index: i, URL: url})
	}
	skipped := len(urls) - len(pending)

	h.logger.InfoWithFields("pass started", map[string]interface{}{
		"total":       len(urls),
		"skipped":     skipped,
		"pending":     len(pending),
		"concurrency": h.cfg.Harvest.Concurrency,
	})

	pool := scheduler.NewWorkerPool(h.cfg.Harvest.Concurrency, h, h.logger)
	pool.Start()

	processed := 0
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer pool.Stop()
		for _, job := range pending {
			if err := pool.Submit(job); err != nil {
				// Pool aborted; the fatal error is reported by the
				// result consumer.
				return nil
			}
		}
		return nil
	})

	g.Go(func() error {
		var fatal error
		for result := range pool.Results() {
			if result.Err != nil {
				if fatal == nil {
					fatal = result.Err
					pool.Abort()
				}
				continue
			}
			processed++
			h.logger.InfoWithFields("url processed", map[string]interface{}{
				"url":       result.Job.URL,
				"outcome":   result.Outcome.Token(),
				"processed": skipped + processed,
				"total":     len(urls),
				"duration":  result.Duration,
			})
		}
		return fatal
	})

	runErr := g.Wait()

	summary := &Summary{
		Total:     len(urls),
		Skipped:   skipped,
		Processed: processed,
		Counts:    store.Counts(),
		Elapsed:   time.Since(start),
	}

	h.logger.InfoWithFields("pass finished", map[string]interface{}{
		"total":     summary.Total,
		"processed": summary.Processed,
		"skipped":   summary.Skipped,
		"saved":     summary.Counts[models.KindSaved],
		"failed":    summary.Counts[models.KindFailed],
		"not_found": summary.Counts[models.KindNotFound],
		"elapsed":   summary.Elapsed,
	})

	if runErr != nil {
		return summary, fmt.Errorf("pass aborted: %w", runErr)
	}
	return summary, nil
}

// Process handles one URL end to end. Implements scheduler.Processor.
// The returned error is non-nil only for checkpoint store failures.
func (h *Harvester) Process(ctx context.Context, url string) (models.Outcome, error) {
	h.limiter.Wait()

	resp, fetchErr := h.client.Fetch(ctx, url)
	result := h.classifier.Classify(resp, fetchErr)

	var outcome models.Outcome
	switch result.Class {
	case classifier.ClassNotFound:
		outcome = models.NotFound()
	case classifier.ClassSuccess:
		outcome = h.extractAndStore(url, resp.Body)
	default:
		outcome = models.Failed(result.Reason)
	}

	if err := h.store.Append(url, outcome); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// extractAndStore slices the payload out of the body and persists it. Any
// extraction or artifact-write failure degrades the outcome to failed; it
// never aborts the pass.
func (h *Harvester) extractAndStore(url string, body []byte) models.Outcome {
	text, err := h.scanner.Extract(body)
	if err != nil {
		return models.Failed(err.Error())
	}

	path, err := h.artifacts.SaveArtifact(strings.NewReader(text), url)
	if err != nil {
		h.logger.WarnWithFields("artifact write failed", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return models.Failed(err.Error())
	}

	return models.Saved(path)
}

// RewriteQueue produces the next pass's work list from the completed
// checkpoint. Mode "drop" removes not-found URLs; mode "relink" applies
// the dead-link rewrite rule. When recordPath is non-empty in relink
// mode, per-URL decisions (unchanged / rewritten URL) are appended there.
func (h *Harvester) RewriteQueue(mode, outputPath, recordPath string, rule rewrite.Rule) error {
	urls, err := worklist.Load(h.cfg.Harvest.InputList)
	if err != nil {
		return err
	}

	store, err := checkpoint.Open(h.cfg.Harvest.CheckpointFile, h.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	var next []string
	switch mode {
	case "drop":
		next = rewrite.DropNotFound(urls, store)
	case "relink":
		var decisions []models.Outcome
		next, decisions = rewrite.RewriteDead(urls, store, rule)
		if recordPath != "" {
			record, err := checkpoint.Open(recordPath, h.logger)
			if err != nil {
				return err
			}
			defer record.Close()
			for i, url := range urls {
				if err := record.Append(url, decisions[i]); err != nil {
					return err
				}
			}
		}
	default:
		return fmt.Errorf("unknown rewrite mode: %q", mode)
	}

	if err := worklist.Write(outputPath, next); err != nil {
		return err
	}

	h.logger.InfoWithFields("work list rewritten", map[string]interface{}{
		"mode":   mode,
		"input":  len(urls),
		"output": len(next),
		"path":   outputPath,
	})

	return nil
}

// Status returns outcome counts from the checkpoint without running a pass.
func (h *Harvester) Status() (map[models.Kind]int, int, error) {
	store, err := checkpoint.Open(h.cfg.Harvest.CheckpointFile, h.logger)
	if err != nil {
		return nil, 0, err
	}
	defer store.Close()
	return store.Counts(), store.Len(), nil
}
