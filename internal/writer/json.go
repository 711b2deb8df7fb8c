// Package writer materializes a finished build: per-set JSON files,
// combined CSV exports, and the sqlite tables the api-server reads.
package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cardhub/internal/output"
	"cardhub/internal/pipeline"
	"cardhub/pkg/models"
)

type JSONWriter struct {
	Dir    string
	Pretty bool

	logger *zap.Logger
}

func NewJSONWriter(dir string, pretty bool, logger *zap.Logger) *JSONWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONWriter{Dir: dir, Pretty: pretty, logger: logger}
}

// setFile is the on-disk shape of one set.
type setFile struct {
	Code   string                 `json:"code"`
	Cards  []models.CanonicalCard `json:"cards"`
	Tokens []models.CanonicalCard `json:"tokens"`
}

// WriteSets writes one JSON file per set, fanned out across workers.
// Stages upstream have no cross-row effects by set, so per-set writes
// are independent.
func (w *JSONWriter) WriteSets(ctx context.Context, result *pipeline.Result) error {
	dir := filepath.Join(w.Dir, "sets")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure output dir: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, code := range result.SetCodes() {
		code := code
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			file := setFile{
				Code:   code,
				Cards:  selectAll(result.CardsBySet[code], output.TargetFull),
				Tokens: selectAll(result.TokensBySet[code], output.TargetToken),
			}
			path := filepath.Join(dir, code+".json")
			if err := w.writeFile(path, file); err != nil {
				return fmt.Errorf("write set %s: %w", code, err)
			}

			w.logger.Debug("set written",
				zap.String("setCode", code),
				zap.Int("cards", len(file.Cards)),
				zap.Int("tokens", len(file.Tokens)))
			return nil
		})
	}
	return g.Wait()
}

// WriteAtomic writes the cross-printing file: cards grouped by name
// with printing-specific fields dropped.
func (w *JSONWriter) WriteAtomic(result *pipeline.Result) error {
	grouped := make(map[string][]models.CanonicalCard)
	for _, c := range result.Cards {
		grouped[c.Name] = append(grouped[c.Name], output.Select(c, output.TargetAtomic))
	}
	return w.writeFile(filepath.Join(w.Dir, "atomic.json"), grouped)
}

// WriteMappings writes the reverse ID tables for the pricing
// collaborator.
func (w *JSONWriter) WriteMappings(result *pipeline.Result) error {
	return w.writeFile(filepath.Join(w.Dir, "mappings.json"), result.Mappings)
}

func (w *JSONWriter) writeFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var (
		b   []byte
		err error
	)
	if w.Pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}

func selectAll(cards []*models.CanonicalCard, target output.Target) []models.CanonicalCard {
	out := make([]models.CanonicalCard, 0, len(cards))
	for _, c := range cards {
		out = append(out, output.Select(c, target))
	}
	return out
}
