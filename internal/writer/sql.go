package writer

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"cardhub/internal/pipeline"
	"cardhub/pkg/models"
)

// SaveToDatabase upserts the finished batch into the `cards` table and
// refreshes the reverse ID map and per-set counts. The uuid cache
// table is handled separately (internal/provider) because it must
// never be overwritten.
func SaveToDatabase(ctx context.Context, db *sql.DB, result *pipeline.Result) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cards (
		  uuid, name, face_name, set_code, number, layout, side, language,
		  type, types, supertypes, subtypes, mana_cost, text, colors,
		  power, toughness, loyalty, border_color, frame_version,
		  frame_effects, finishes, rarity, artist, watermark,
		  is_alternative, is_rebalanced, is_token,
		  other_face_ids, variations, token_ids, reverse_related,
		  legalities, availability, leadership, identifiers
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(uuid) DO UPDATE SET
		  name = excluded.name,
		  face_name = excluded.face_name,
		  set_code = excluded.set_code,
		  number = excluded.number,
		  layout = excluded.layout,
		  side = excluded.side,
		  language = excluded.language,
		  type = excluded.type,
		  types = excluded.types,
		  supertypes = excluded.supertypes,
		  subtypes = excluded.subtypes,
		  mana_cost = excluded.mana_cost,
		  text = excluded.text,
		  colors = excluded.colors,
		  power = excluded.power,
		  toughness = excluded.toughness,
		  loyalty = excluded.loyalty,
		  border_color = excluded.border_color,
		  frame_version = excluded.frame_version,
		  frame_effects = excluded.frame_effects,
		  finishes = excluded.finishes,
		  rarity = excluded.rarity,
		  artist = excluded.artist,
		  watermark = excluded.watermark,
		  is_alternative = excluded.is_alternative,
		  is_rebalanced = excluded.is_rebalanced,
		  is_token = excluded.is_token,
		  other_face_ids = excluded.other_face_ids,
		  variations = excluded.variations,
		  token_ids = excluded.token_ids,
		  reverse_related = excluded.reverse_related,
		  legalities = excluded.legalities,
		  availability = excluded.availability,
		  leadership = excluded.leadership,
		  identifiers = excluded.identifiers
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, c := range result.Cards {
		if err := execCard(ctx, stmt, c, false); err != nil {
			return err
		}
	}
	for _, c := range result.Tokens {
		if err := execCard(ctx, stmt, c, true); err != nil {
			return err
		}
	}

	if err := saveMappings(ctx, tx, result); err != nil {
		return err
	}
	if err := saveSetCounts(ctx, tx, result); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func execCard(ctx context.Context, stmt *sql.Stmt, c *models.CanonicalCard, isToken bool) error {
	leadership, err := jsonOrNull(c.LeadershipSkills)
	if err != nil {
		return fmt.Errorf("marshal leadership for %s: %w", c.UUID, err)
	}
	identifiers, err := json.Marshal(c.Identifiers)
	if err != nil {
		return fmt.Errorf("marshal identifiers for %s: %w", c.UUID, err)
	}
	legalities, err := json.Marshal(c.Legalities)
	if err != nil {
		return fmt.Errorf("marshal legalities for %s: %w", c.UUID, err)
	}

	if _, err := stmt.ExecContext(
		ctx,
		c.UUID, c.Name, c.FaceName, c.SetCode, c.Number, c.Layout, c.Side, c.Language,
		c.Type, jsonList(c.Types), jsonList(c.Supertypes), jsonList(c.Subtypes),
		c.ManaCost, c.Text, jsonList(c.Colors),
		c.Power, c.Toughness, c.Loyalty, c.BorderColor, c.FrameVersion,
		jsonList(c.FrameEffects), jsonList(c.Finishes), c.Rarity, c.Artist, c.Watermark,
		c.IsAlternative, c.IsRebalanced, isToken,
		jsonList(c.OtherFaceIDs), jsonList(c.Variations), jsonList(c.TokenIDs), jsonList(c.ReverseRelated),
		string(legalities), jsonList(c.Availability), leadership, string(identifiers),
	); err != nil {
		return fmt.Errorf("exec upsert for %s: %w", c.UUID, err)
	}
	return nil
}

func saveMappings(ctx context.Context, tx *sql.Tx, result *pipeline.Result) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO id_map (kind, external_id, uuid)
		VALUES (?, ?, ?)
		ON CONFLICT(kind, external_id) DO UPDATE SET uuid = excluded.uuid
	`)
	if err != nil {
		return fmt.Errorf("prepare id_map stmt: %w", err)
	}
	defer stmt.Close()

	tables := map[string]map[string]string{
		"scryfall":    result.Mappings.Scryfall,
		"legacy":      result.Mappings.Legacy,
		"tcgplayer":   result.Mappings.Tcgplayer,
		"cardkingdom": result.Mappings.CardKingdom,
		"mtgo":        result.Mappings.Mtgo,
		"cardmarket":  result.Mappings.Cardmarket,
	}
	for kind, table := range tables {
		for externalID, uuid := range table {
			if _, err := stmt.ExecContext(ctx, kind, externalID, uuid); err != nil {
				return fmt.Errorf("exec id_map %s/%s: %w", kind, externalID, err)
			}
		}
	}
	return nil
}

func saveSetCounts(ctx context.Context, tx *sql.Tx, result *pipeline.Result) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sets (code, card_count, token_count, built_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
		  card_count = excluded.card_count,
		  token_count = excluded.token_count,
		  built_at = excluded.built_at
	`)
	if err != nil {
		return fmt.Errorf("prepare sets stmt: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, code := range result.SetCodes() {
		if _, err := stmt.ExecContext(
			ctx, code,
			len(result.CardsBySet[code]),
			len(result.TokensBySet[code]),
			now,
		); err != nil {
			return fmt.Errorf("exec sets for %s: %w", code, err)
		}
	}
	return nil
}

func jsonList(list []string) string {
	if list == nil {
		list = []string{}
	}
	b, _ := json.Marshal(list)
	return string(b)
}

func jsonOrNull(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case *models.LeadershipSkills:
		if t == nil {
			return nil, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
