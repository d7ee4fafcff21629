package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Skufu/diass/internal/analysis"
)

// Querier is the read side of a pgx connection or pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Execer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS kb_meta (
	id           SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
	version      TEXT NOT NULL,
	last_updated TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS drugs (
	id           TEXT PRIMARY KEY,
	position     INTEGER NOT NULL,
	name         TEXT NOT NULL,
	generic_name TEXT NOT NULL DEFAULT '',
	brand_name   TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL DEFAULT '',
	classes      TEXT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS drug_interactions (
	drug_a                TEXT NOT NULL REFERENCES drugs(id),
	drug_b                TEXT NOT NULL REFERENCES drugs(id),
	position              INTEGER NOT NULL,
	compatibility_status  TEXT NOT NULL,
	risk_level            TEXT NOT NULL,
	time_to_onset         TEXT NOT NULL,
	confidence_score      INTEGER NOT NULL CHECK (confidence_score BETWEEN 1 AND 5),
	mechanism             TEXT NOT NULL,
	effects               TEXT[] NOT NULL DEFAULT '{}',
	dose_modification     TEXT NOT NULL DEFAULT '',
	monitoring_parameters TEXT[] NOT NULL DEFAULT '{}',
	alternatives          TEXT[] NOT NULL DEFAULT '{}',
	evidence              JSONB NOT NULL DEFAULT '{}',
	PRIMARY KEY (drug_a, drug_b)
);

CREATE TABLE IF NOT EXISTS food_interactions (
	drug_id  TEXT NOT NULL REFERENCES drugs(id),
	food     TEXT NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (drug_id, food)
);

CREATE TABLE IF NOT EXISTS alcohol_interactions (
	drug_id TEXT PRIMARY KEY REFERENCES drugs(id)
);
`

const (
	selectMetaSQL = `SELECT version, last_updated FROM kb_meta WHERE id = 1`

	selectDrugsSQL = `SELECT id, name, generic_name, brand_name, description, classes
FROM drugs ORDER BY position, id`

	selectInteractionsSQL = `SELECT drug_a, drug_b, compatibility_status, risk_level, time_to_onset,
	confidence_score, mechanism, effects, dose_modification, monitoring_parameters,
	alternatives, evidence
FROM drug_interactions ORDER BY position, drug_a, drug_b`

	selectFoodsSQL = `SELECT drug_id, food FROM food_interactions ORDER BY drug_id, position`

	selectAlcoholSQL = `SELECT drug_id FROM alcohol_interactions ORDER BY drug_id`

	upsertMetaSQL = `INSERT INTO kb_meta (id, version, last_updated) VALUES (1, $1, $2)
ON CONFLICT (id) DO UPDATE SET version = EXCLUDED.version, last_updated = EXCLUDED.last_updated`

	upsertDrugSQL = `INSERT INTO drugs (id, position, name, generic_name, brand_name, description, classes)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET position = EXCLUDED.position, name = EXCLUDED.name,
	generic_name = EXCLUDED.generic_name, brand_name = EXCLUDED.brand_name,
	description = EXCLUDED.description, classes = EXCLUDED.classes`

	upsertInteractionSQL = `INSERT INTO drug_interactions (drug_a, drug_b, position, compatibility_status,
	risk_level, time_to_onset, confidence_score, mechanism, effects, dose_modification,
	monitoring_parameters, alternatives, evidence)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13::jsonb)
ON CONFLICT (drug_a, drug_b) DO UPDATE SET position = EXCLUDED.position,
	compatibility_status = EXCLUDED.compatibility_status, risk_level = EXCLUDED.risk_level,
	time_to_onset = EXCLUDED.time_to_onset, confidence_score = EXCLUDED.confidence_score,
	mechanism = EXCLUDED.mechanism, effects = EXCLUDED.effects,
	dose_modification = EXCLUDED.dose_modification,
	monitoring_parameters = EXCLUDED.monitoring_parameters,
	alternatives = EXCLUDED.alternatives, evidence = EXCLUDED.evidence`

	upsertFoodSQL = `INSERT INTO food_interactions (drug_id, food, position) VALUES ($1, $2, $3)
ON CONFLICT (drug_id, food) DO UPDATE SET position = EXCLUDED.position`

	upsertAlcoholSQL = `INSERT INTO alcohol_interactions (drug_id) VALUES ($1) ON CONFLICT DO NOTHING`
)

// EnsureSchema creates the knowledge base tables if they do not exist.
func EnsureSchema(ctx context.Context, db Execer) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Seed upserts every row of ds. Running it twice leaves the database
// unchanged; rows not present in ds are left alone.
func Seed(ctx context.Context, db Execer, ds *Dataset) error {
	if _, err := db.Exec(ctx, upsertMetaSQL, ds.Version, ds.LastUpdated); err != nil {
		return fmt.Errorf("seed kb_meta: %w", err)
	}

	for i, d := range ds.Drugs {
		classes := d.Classes
		if classes == nil {
			classes = []string{}
		}
		if _, err := db.Exec(ctx, upsertDrugSQL,
			analysis.NormalizeID(d.ID), i, d.Name, d.GenericName, d.BrandName, d.Description, classes,
		); err != nil {
			return fmt.Errorf("seed drug %s: %w", d.ID, err)
		}
	}

	for i, rec := range ds.Interactions {
		r := rec.Result
		evidence, err := json.Marshal(r.Evidence)
		if err != nil {
			return fmt.Errorf("encode evidence %s/%s: %w", rec.DrugA, rec.DrugB, err)
		}
		if _, err := db.Exec(ctx, upsertInteractionSQL,
			analysis.NormalizeID(rec.DrugA), analysis.NormalizeID(rec.DrugB), i,
			string(r.CompatibilityStatus), string(r.RiskLevel), string(r.TimeToOnset),
			r.ConfidenceScore, r.Mechanism, nonNil(r.Effects), r.DoseModification,
			nonNil(r.MonitoringParameters), nonNil(r.Alternatives), string(evidence),
		); err != nil {
			return fmt.Errorf("seed interaction %s/%s: %w", rec.DrugA, rec.DrugB, err)
		}
	}

	for id, foods := range ds.FoodInteractions {
		for i, food := range foods {
			if _, err := db.Exec(ctx, upsertFoodSQL, analysis.NormalizeID(id), food, i); err != nil {
				return fmt.Errorf("seed food %s/%s: %w", id, food, err)
			}
		}
	}

	for _, id := range ds.AlcoholInteractions {
		if _, err := db.Exec(ctx, upsertAlcoholSQL, analysis.NormalizeID(id)); err != nil {
			return fmt.Errorf("seed alcohol %s: %w", id, err)
		}
	}
	return nil
}

// LoadPostgres reads the whole knowledge base. The result still has to go
// through Build before it can be used.
func LoadPostgres(ctx context.Context, db Querier) (*Dataset, error) {
	ds := &Dataset{
		FoodInteractions: map[string][]string{},
	}

	if err := db.QueryRow(ctx, selectMetaSQL).Scan(&ds.Version, &ds.LastUpdated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("kb_meta is empty, run seed-db first")
		}
		return nil, fmt.Errorf("load kb_meta: %w", err)
	}

	rows, err := db.Query(ctx, selectDrugsSQL)
	if err != nil {
		return nil, fmt.Errorf("query drugs: %w", err)
	}
	ds.Drugs, err = pgx.CollectRows(rows, scanDrug)
	if err != nil {
		return nil, fmt.Errorf("load drugs: %w", err)
	}
	if len(ds.Drugs) == 0 {
		return nil, fmt.Errorf("drugs table is empty")
	}

	rows, err = db.Query(ctx, selectInteractionsSQL)
	if err != nil {
		return nil, fmt.Errorf("query drug_interactions: %w", err)
	}
	ds.Interactions, err = pgx.CollectRows(rows, scanInteraction)
	if err != nil {
		return nil, fmt.Errorf("load drug_interactions: %w", err)
	}

	rows, err = db.Query(ctx, selectFoodsSQL)
	if err != nil {
		return nil, fmt.Errorf("query food_interactions: %w", err)
	}
	foods, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) ([2]string, error) {
		var pair [2]string
		err := row.Scan(&pair[0], &pair[1])
		return pair, err
	})
	if err != nil {
		return nil, fmt.Errorf("load food_interactions: %w", err)
	}
	for _, f := range foods {
		ds.FoodInteractions[f[0]] = append(ds.FoodInteractions[f[0]], f[1])
	}

	rows, err = db.Query(ctx, selectAlcoholSQL)
	if err != nil {
		return nil, fmt.Errorf("query alcohol_interactions: %w", err)
	}
	ds.AlcoholInteractions, err = pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("load alcohol_interactions: %w", err)
	}

	return ds, nil
}

func scanDrug(row pgx.CollectableRow) (analysis.Drug, error) {
	var d analysis.Drug
	err := row.Scan(&d.ID, &d.Name, &d.GenericName, &d.BrandName, &d.Description, &d.Classes)
	return d, err
}

func scanInteraction(row pgx.CollectableRow) (analysis.PairRecord, error) {
	var (
		rec                 analysis.PairRecord
		status, risk, onset string
		evidence            []byte
	)
	r := &rec.Result
	if err := row.Scan(&rec.DrugA, &rec.DrugB, &status, &risk, &onset,
		&r.ConfidenceScore, &r.Mechanism, &r.Effects, &r.DoseModification,
		&r.MonitoringParameters, &r.Alternatives, &evidence,
	); err != nil {
		return rec, err
	}
	r.CompatibilityStatus = analysis.CompatibilityStatus(status)
	r.RiskLevel = analysis.RiskLevel(risk)
	r.TimeToOnset = analysis.TimeToOnset(onset)
	if len(evidence) > 0 {
		if err := json.Unmarshal(evidence, &r.Evidence); err != nil {
			return rec, fmt.Errorf("decode evidence %s/%s: %w", rec.DrugA, rec.DrugB, err)
		}
	}
	return rec, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
