// Package api serves the built card database over HTTP: set summaries,
// card lookup by UUID, external-ID resolution, and the admin rebuild
// endpoint.
package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"cardhub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

type SetSummary struct {
	Code       string `json:"code"`
	CardCount  int    `json:"card_count"`
	TokenCount int    `json:"token_count"`
	BuiltAt    string `json:"built_at,omitempty"`
}

type ListQuery struct {
	Q       string // keyword search in name
	SetCode string
	Tokens  bool
	Limit   int
	Offset  int
}

func (r *Repo) ListSets(ctx context.Context) ([]SetSummary, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT code, card_count, token_count, built_at
		FROM sets
		ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer rows.Close()

	out := []SetSummary{}
	for rows.Next() {
		var (
			s       SetSummary
			builtAt sql.NullString
		)
		if err := rows.Scan(&s.Code, &s.CardCount, &s.TokenCount, &builtAt); err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		s.BuiltAt = builtAt.String
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) GetSet(ctx context.Context, code string) (*SetSummary, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT code, card_count, token_count, built_at
		FROM sets
		WHERE code = ?
	`, code)

	var (
		s       SetSummary
		builtAt sql.NullString
	)
	if err := row.Scan(&s.Code, &s.CardCount, &s.TokenCount, &builtAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan set: %w", err)
	}
	s.BuiltAt = builtAt.String
	return &s, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	var total int
	if err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.CanonicalCard, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.CanonicalCard, 0, q.Limit)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *card)
	}
	return out, rows.Err()
}

func (r *Repo) GetByUUID(ctx context.Context, uuid string) (*models.CanonicalCard, bool, error) {
	row := r.DB.QueryRowContext(ctx, cardSelect+` WHERE uuid = ?`, uuid)
	var isToken bool
	card, err := scanCardRow(row, &isToken)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return card, isToken, nil
}

// LookupUUID resolves an external identifier (tcgplayer, mtgo, legacy,
// scryfall, ...) to the primary UUID.
func (r *Repo) LookupUUID(ctx context.Context, kind, externalID string) (string, error) {
	var uuid string
	err := r.DB.QueryRowContext(ctx, `
		SELECT uuid FROM id_map WHERE kind = ? AND external_id = ?
	`, kind, externalID).Scan(&uuid)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup %s/%s: %w", kind, externalID, err)
	}
	return uuid, nil
}

const cardSelect = `
	SELECT uuid, name, face_name, set_code, number, layout, side, language,
	       type, types, supertypes, subtypes, mana_cost, text, colors,
	       power, toughness, loyalty, rarity, artist, watermark,
	       is_alternative, is_rebalanced, is_token,
	       other_face_ids, variations, token_ids, reverse_related,
	       legalities, availability, leadership, identifiers
	FROM cards`

func buildListSQL(q ListQuery, count bool) (string, []any) {
	var (
		where []string
		args  []any
	)
	if q.Q != "" {
		where = append(where, "name LIKE ?")
		args = append(args, "%"+q.Q+"%")
	}
	if q.SetCode != "" {
		where = append(where, "set_code = ?")
		args = append(args, q.SetCode)
	}
	if q.Tokens {
		where = append(where, "is_token = 1")
	} else {
		where = append(where, "is_token = 0")
	}

	sqlStr := cardSelect
	if count {
		sqlStr = `SELECT COUNT(*) FROM cards`
	}
	sqlStr += " WHERE " + strings.Join(where, " AND ")
	if !count {
		sqlStr += " ORDER BY set_code, number, side LIMIT ? OFFSET ?"
		limit := q.Limit
		if limit <= 0 {
			limit = 20
		}
		args = append(args, limit, q.Offset)
	}
	return sqlStr, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(rows *sql.Rows) (*models.CanonicalCard, error) {
	var isToken bool
	return scanCardRow(rows, &isToken)
}

func scanCardRow(row rowScanner, isToken *bool) (*models.CanonicalCard, error) {
	var (
		c models.CanonicalCard

		faceName, side, language, cardType        sql.NullString
		manaCost, text, power, toughness, loyalty sql.NullString
		rarity, artist, watermark, layout         sql.NullString

		types, supertypes, subtypes, colors    string
		otherFaces, variations, tokens, revRel string
		legalities, availability               string
		leadership, identifiers                sql.NullString
	)

	if err := row.Scan(
		&c.UUID, &c.Name, &faceName, &c.SetCode, &c.Number, &layout, &side, &language,
		&cardType, &types, &supertypes, &subtypes, &manaCost, &text, &colors,
		&power, &toughness, &loyalty, &rarity, &artist, &watermark,
		&c.IsAlternative, &c.IsRebalanced, isToken,
		&otherFaces, &variations, &tokens, &revRel,
		&legalities, &availability, &leadership, &identifiers,
	); err != nil {
		return nil, err
	}

	c.FaceName = faceName.String
	c.Side = side.String
	c.Language = language.String
	c.Type = cardType.String
	c.Layout = layout.String
	c.ManaCost = manaCost.String
	c.Text = text.String
	c.Power = power.String
	c.Toughness = toughness.String
	c.Loyalty = loyalty.String
	c.Rarity = rarity.String
	c.Artist = artist.String
	c.Watermark = watermark.String

	_ = json.Unmarshal([]byte(types), &c.Types)
	_ = json.Unmarshal([]byte(supertypes), &c.Supertypes)
	_ = json.Unmarshal([]byte(subtypes), &c.Subtypes)
	_ = json.Unmarshal([]byte(colors), &c.Colors)
	_ = json.Unmarshal([]byte(otherFaces), &c.OtherFaceIDs)
	_ = json.Unmarshal([]byte(variations), &c.Variations)
	_ = json.Unmarshal([]byte(tokens), &c.TokenIDs)
	_ = json.Unmarshal([]byte(revRel), &c.ReverseRelated)
	_ = json.Unmarshal([]byte(legalities), &c.Legalities)
	_ = json.Unmarshal([]byte(availability), &c.Availability)
	if leadership.Valid {
		_ = json.Unmarshal([]byte(leadership.String), &c.LeadershipSkills)
	}
	if identifiers.Valid {
		_ = json.Unmarshal([]byte(identifiers.String), &c.Identifiers)
	}
	return &c, nil
}
