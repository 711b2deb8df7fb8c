package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cardhub/pkg/database"
)

func main() {
	var (
		cardsOut  = flag.String("cards", "data/out/cards.csv", "output CSV path for cards")
		tokensOut = flag.String("tokens", "data/out/tokens.csv", "output CSV path for tokens")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportCards(ctx, db, *cardsOut, false); err != nil {
		log.Fatalf("export cards failed: %v", err)
	}
	if err := exportCards(ctx, db, *tokensOut, true); err != nil {
		log.Fatalf("export tokens failed: %v", err)
	}

	log.Printf("exported cards to %s and tokens to %s", *cardsOut, *tokensOut)
}

func exportCards(ctx context.Context, db *sql.DB, outPath string, tokens bool) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"uuid", "name", "face_name", "set_code", "number", "layout", "side",
		"rarity", "type", "mana_cost", "power", "toughness",
		"is_alternative", "is_rebalanced",
		"other_face_ids", "variations", "availability",
	}); err != nil {
		return err
	}

	isToken := 0
	if tokens {
		isToken = 1
	}

	rows, err := db.QueryContext(ctx, `
        SELECT uuid, name, face_name, set_code, number, layout, side,
               rarity, type, mana_cost, power, toughness,
               is_alternative, is_rebalanced,
               other_face_ids, variations, availability
        FROM cards
        WHERE is_token = ?
        ORDER BY set_code, number, side
    `, isToken)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			uuid, name, setCode, number     string
			faceName, layout, side          sql.NullString
			rarity, cardType, manaCost      sql.NullString
			power, toughness                sql.NullString
			isAlternative, isRebalanced     bool
			otherFaces, variations, availab string
		)

		if err := rows.Scan(
			&uuid, &name, &faceName, &setCode, &number, &layout, &side,
			&rarity, &cardType, &manaCost, &power, &toughness,
			&isAlternative, &isRebalanced,
			&otherFaces, &variations, &availab,
		); err != nil {
			return err
		}

		if err := w.Write([]string{
			uuid,
			name,
			faceName.String,
			setCode,
			number,
			layout.String,
			side.String,
			rarity.String,
			cardType.String,
			manaCost.String,
			power.String,
			toughness.String,
			boolCell(isAlternative),
			boolCell(isRebalanced),
			listCell(otherFaces),
			listCell(variations),
			listCell(availab),
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

// listCell flattens a JSON string array column into a comma-joined
// cell.
func listCell(raw string) string {
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return ""
	}
	return strings.Join(list, ",")
}

func boolCell(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
