// Package provider loads the raw printing batch and every auxiliary
// lookup batch the pipeline consumes. Each input comes from a JSON
// file under the input directory, or from an HTTP URL when one is
// configured for it.
//
// A missing or unreadable auxiliary source degrades gracefully: it is
// logged once and yields an empty batch, so the corresponding fields
// come out null. Only the primary raw batch is required.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"cardhub/pkg/models"
)

// Input file names under the input directory.
const (
	FilePrintings       = "printings.json"
	FileForeignPrints   = "foreign_printings.json"
	FileCatalog         = "catalog.json"
	FileBridge          = "bridge.json"
	FileOracle          = "oracle.json"
	FileDefaultLanguage = "default_language.json"
	FileMeldTriplets    = "meld_triplets.json"
	FileMeldOverrides   = "meld_overrides.json"
	FileWatermarks      = "watermarks.json"
	FileStandardSets    = "standard_sets.json"
	FileCommanders      = "commanders.json"
)

type Loader struct {
	Dir    string
	Client *http.Client

	// URLs maps an input file name to an HTTP source that takes
	// precedence over the local file.
	URLs map[string]string

	logger *zap.Logger
}

func NewLoader(dir string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		Dir:    dir,
		Client: &http.Client{Timeout: 90 * time.Second},
		logger: logger,
	}
}

// RawPrintings loads the primary provider batch. Unlike the auxiliary
// sources this one is required: an error here aborts the build.
func (l *Loader) RawPrintings(ctx context.Context) ([]models.RawPrinting, error) {
	var raws []models.RawPrinting
	if err := l.load(ctx, FilePrintings, &raws); err != nil {
		return nil, fmt.Errorf("raw printings: %w", err)
	}
	return raws, nil
}

// Aux loads every auxiliary batch, degrading per source. The UUID
// cache is loaded separately (it lives in the database, not in a
// file).
func (l *Loader) Aux(ctx context.Context) *models.Aux {
	aux := &models.Aux{
		Oracle:          make(map[string]models.OracleEntry),
		DefaultLanguage: make(map[string]string),
	}

	l.loadOptional(ctx, FileForeignPrints, &aux.ForeignPrints)
	l.loadOptional(ctx, FileCatalog, &aux.Catalog)
	l.loadOptional(ctx, FileBridge, &aux.Bridge)
	l.loadOptional(ctx, FileMeldTriplets, &aux.MeldTriplets)
	l.loadOptional(ctx, FileMeldOverrides, &aux.MeldOverrides)
	l.loadOptional(ctx, FileWatermarks, &aux.Watermarks)
	l.loadOptional(ctx, FileStandardSets, &aux.StandardSets)
	l.loadOptional(ctx, FileCommanders, &aux.CommanderNames)
	l.loadOptional(ctx, FileDefaultLanguage, &aux.DefaultLanguage)

	var oracle []models.OracleEntry
	l.loadOptional(ctx, FileOracle, &oracle)
	for _, e := range oracle {
		aux.Oracle[e.OracleID] = e
	}

	return aux
}

func (l *Loader) loadOptional(ctx context.Context, name string, target any) {
	if err := l.load(ctx, name, target); err != nil {
		l.logger.Warn("auxiliary source unavailable, continuing without it",
			zap.String("source", name),
			zap.Error(err))
	}
}

func (l *Loader) load(ctx context.Context, name string, target any) error {
	if url, ok := l.URLs[name]; ok && url != "" {
		return l.fetch(ctx, url, target)
	}

	path := filepath.Join(l.Dir, name)
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (l *Loader) fetch(ctx context.Context, url string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.Client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: status %d: %s", url, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
