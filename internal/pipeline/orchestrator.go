package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"coverbot/internal/analysis"
	"coverbot/internal/coverage"
	"coverbot/internal/language"
	"coverbot/internal/llm"
	"coverbot/internal/logging"
	"coverbot/internal/prompt"
)

// Options configures a generation batch.
type Options struct {
	// SourceRoot is where candidate source files are read from.
	SourceRoot string
	// OutputRoot anchors the resolver's destination paths. Defaults to
	// SourceRoot when empty.
	OutputRoot string
	// MaxFiles caps how many candidates the batch attempts. Zero means no cap.
	MaxFiles int
	// Framework overrides per-language framework selection when non-empty
	// and not "auto".
	Framework string
	// Model is recorded in the summary for traceability; the client itself
	// already carries it.
	Model string
}

// Orchestrator runs the generation batch: each candidate flows through
// read, detect, extract, prompt, complete, sanitize, resolve, write. Any
// stage failure skips that candidate with a logged cause and the batch
// continues; candidates never affect each other.
type Orchestrator struct {
	client    llm.Client
	extractor *analysis.Extractor
	resolver  *Resolver
	opts      Options
}

// NewOrchestrator wires a batch runner around a completion client.
func NewOrchestrator(client llm.Client, opts Options) *Orchestrator {
	if opts.OutputRoot == "" {
		opts.OutputRoot = opts.SourceRoot
	}
	return &Orchestrator{
		client:    client,
		extractor: analysis.NewExtractor(),
		resolver:  &Resolver{Root: opts.OutputRoot},
		opts:      opts,
	}
}

// Run processes the ranked candidate list sequentially and returns the batch
// summary. An empty candidate list yields a zero summary without invoking
// the model.
func (o *Orchestrator) Run(ctx context.Context, candidates []coverage.Candidate) *Summary {
	summary := &Summary{
		GeneratedFiles: []Entry{},
		Model:          o.opts.Model,
		Framework:      o.opts.Framework,
	}

	if o.opts.MaxFiles > 0 && len(candidates) > o.opts.MaxFiles {
		logging.Generation("capping batch to %d of %d candidates", o.opts.MaxFiles, len(candidates))
		candidates = candidates[:o.opts.MaxFiles]
	}

	for _, candidate := range candidates {
		entry, err := o.generateOne(ctx, candidate)
		if err != nil {
			logging.Generation("skipping %s: %v", candidate.Filename, err)
			continue
		}
		summary.GeneratedFiles = append(summary.GeneratedFiles, entry)
		summary.FilesProcessed++
		summary.TestsGenerated++
	}

	logging.Generation("batch complete: %d/%d candidates produced tests",
		summary.FilesProcessed, len(candidates))
	return summary
}

// generateOne runs the full stage chain for a single candidate.
func (o *Orchestrator) generateOne(ctx context.Context, candidate coverage.Candidate) (Entry, error) {
	sourcePath := filepath.Join(o.opts.SourceRoot, filepath.FromSlash(candidate.Filename))
	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return Entry{}, &stageError{stage: "read", err: err}
	}

	lang := language.Detect(candidate.Filename)
	framework := language.SelectFramework(lang, o.opts.Framework)
	inventory := o.extractor.Extract(source, lang)

	logging.GenerationDebug("%s: language=%s framework=%s functions=%d classes=%d",
		candidate.Filename, lang, framework, len(inventory.Functions), len(inventory.Classes))

	request := prompt.Build(prompt.Request{
		FilePath:  candidate.Filename,
		Language:  lang,
		Framework: framework,
		Coverage:  candidate.Coverage,
		Source:    string(source),
		Inventory: inventory,
	})

	raw, err := o.client.CompleteWithSystem(ctx, "", request)
	if err != nil {
		return Entry{}, &stageError{stage: "completion", err: err}
	}

	code := prompt.Clean(raw)
	if code == "" {
		return Entry{}, &stageError{stage: "sanitize", err: errEmptyOutput}
	}

	testPath, err := o.resolver.Resolve(candidate.Filename)
	if err != nil {
		return Entry{}, &stageError{stage: "resolve", err: err}
	}

	if err := os.WriteFile(testPath, []byte(code+"\n"), 0644); err != nil {
		return Entry{}, &stageError{stage: "write", err: err}
	}

	rel := testPath
	if r, err := filepath.Rel(o.opts.OutputRoot, testPath); err == nil {
		rel = filepath.ToSlash(r)
	}

	return Entry{
		SourceFile: candidate.Filename,
		TestFile:   rel,
		Coverage:   candidate.Coverage,
	}, nil
}
