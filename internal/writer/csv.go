package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cardhub/pkg/models"
)

var csvHeader = []string{
	"uuid", "name", "face_name", "set_code", "number", "layout", "side",
	"rarity", "type", "mana_cost", "power", "toughness",
	"is_alternative", "is_rebalanced",
	"other_face_ids", "variations", "availability",
}

// WriteCSV writes one flat CSV of the given batch. List fields are
// comma-joined inside the cell, matching the other exports' shape.
func WriteCSV(path string, cards []*models.CanonicalCard) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, c := range cards {
		if err := w.Write([]string{
			c.UUID,
			c.Name,
			c.FaceName,
			c.SetCode,
			c.Number,
			c.Layout,
			c.Side,
			c.Rarity,
			c.Type,
			c.ManaCost,
			c.Power,
			c.Toughness,
			boolCell(c.IsAlternative),
			boolCell(c.IsRebalanced),
			strings.Join(c.OtherFaceIDs, ","),
			strings.Join(c.Variations, ","),
			strings.Join(c.Availability, ","),
		}); err != nil {
			return fmt.Errorf("write row for %s: %w", c.UUID, err)
		}
	}

	w.Flush()
	return w.Error()
}

func boolCell(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
