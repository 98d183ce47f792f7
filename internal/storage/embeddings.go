package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nuggets-cli/nuggets/internal/similarity"
	_ "modernc.org/sqlite"
)

// ErrEmbeddingNotFound is returned when no vector is stored under an id.
var ErrEmbeddingNotFound = errors.New("embedding not found")

// Kind selects which embedding table an operation works on.
type Kind int

const (
	KindSegment Kind = iota
	KindNugget
)

func (k Kind) String() string {
	if k == KindNugget {
		return "nugget"
	}
	return "segment"
}

func (k Kind) table() string {
	if k == KindNugget {
		return "nugget_embeddings"
	}
	return "segment_embeddings"
}

// Meta describes where a vector came from.
type Meta struct {
	EpisodeID string // owning episode
	SegmentID string // owning segment; nugget embeddings only
	ModelName string
	TextHash  string // hash of the embedded text, for staleness checks
}

// Embedding is a stored vector with its metadata.
type Embedding struct {
	ID        string
	Vector    []float32
	Meta      Meta
	UpdatedAt time.Time
}

// DB wraps the SQLite embeddings database.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates the embeddings database at the given path.
func OpenDB(path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS segment_embeddings (
			id TEXT PRIMARY KEY,
			episode_id TEXT,
			segment_id TEXT,
			model_name TEXT,
			text_hash TEXT,
			vector_json TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS nugget_embeddings (
			id TEXT PRIMARY KEY,
			episode_id TEXT,
			segment_id TEXT,
			model_name TEXT,
			text_hash TEXT,
			vector_json TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_segment_embeddings_episode ON segment_embeddings(episode_id);
		CREATE INDEX IF NOT EXISTS idx_nugget_embeddings_episode ON nugget_embeddings(episode_id);
	`

	_, err := db.Exec(schema)
	return err
}

// StoreSegmentEmbedding inserts or replaces the vector for a segment.
func (d *DB) StoreSegmentEmbedding(id string, vector []float32, meta Meta) error {
	return d.store(KindSegment, id, vector, meta)
}

// GetSegmentEmbedding returns the stored vector for a segment.
func (d *DB) GetSegmentEmbedding(id string) (*Embedding, error) {
	return d.get(KindSegment, id)
}

// FindSimilarSegments returns the topK segments most similar to query.
func (d *DB) FindSimilarSegments(query []float32, topK int, excludeIDs []string) ([]similarity.Match, error) {
	return d.FindSimilar(KindSegment, query, topK, excludeIDs)
}

// StoreNuggetEmbedding inserts or replaces the vector for a nugget.
func (d *DB) StoreNuggetEmbedding(id string, vector []float32, meta Meta) error {
	return d.store(KindNugget, id, vector, meta)
}

// GetNuggetEmbedding returns the stored vector for a nugget.
func (d *DB) GetNuggetEmbedding(id string) (*Embedding, error) {
	return d.get(KindNugget, id)
}

// FindSimilarNuggets returns the topK nuggets most similar to query.
func (d *DB) FindSimilarNuggets(query []float32, topK int, excludeIDs []string) ([]similarity.Match, error) {
	return d.FindSimilar(KindNugget, query, topK, excludeIDs)
}

func (d *DB) store(kind Kind, id string, vector []float32, meta Meta) error {
	if id == "" {
		return fmt.Errorf("storing %s embedding: empty id", kind)
	}
	if len(vector) == 0 {
		return fmt.Errorf("storing %s embedding %s: empty vector", kind, id)
	}

	vectorJSON, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("encoding vector: %w", err)
	}

	_, err = d.db.Exec(`
		INSERT OR REPLACE INTO `+kind.table()+` (
			id, episode_id, segment_id, model_name, text_hash, vector_json, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		nullableStringValue(meta.EpisodeID),
		nullableStringValue(meta.SegmentID),
		nullableStringValue(meta.ModelName),
		nullableStringValue(meta.TextHash),
		string(vectorJSON),
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("storing %s embedding %s: %w", kind, id, err)
	}
	return nil
}

func (d *DB) get(kind Kind, id string) (*Embedding, error) {
	row := d.db.QueryRow(`
		SELECT id, episode_id, segment_id, model_name, text_hash, vector_json, updated_at
		FROM `+kind.table()+` WHERE id = ?`, id)

	emb, err := scanEmbedding(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %s", ErrEmbeddingNotFound, kind, id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s embedding %s: %w", kind, id, err)
	}
	return emb, nil
}

// FindSimilar ranks every stored vector of a kind against query and returns
// the topK best, highest first. Ids in excludeIDs are skipped.
func (d *DB) FindSimilar(kind Kind, query []float32, topK int, excludeIDs []string) ([]similarity.Match, error) {
	rows, err := d.db.Query(`SELECT id, vector_json FROM ` + kind.table() + ` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying %s embeddings: %w", kind, err)
	}
	defer rows.Close()

	var candidates []similarity.Candidate
	for rows.Next() {
		var id, vectorJSON string
		if err := rows.Scan(&id, &vectorJSON); err != nil {
			return nil, fmt.Errorf("scanning %s embedding: %w", kind, err)
		}
		var vector []float32
		if err := json.Unmarshal([]byte(vectorJSON), &vector); err != nil {
			return nil, fmt.Errorf("decoding vector for %s: %w", id, err)
		}
		candidates = append(candidates, similarity.Candidate{ID: id, Vector: vector})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s embeddings: %w", kind, err)
	}

	return similarity.TopK(query, candidates, topK, excludeIDs), nil
}

// TextHashes returns id -> text hash for every stored vector of a kind
// produced by model. Vectors from other models are left out so they get
// re-embedded.
func (d *DB) TextHashes(kind Kind, model string) (map[string]string, error) {
	rows, err := d.db.Query(`SELECT id, text_hash FROM `+kind.table()+` WHERE model_name = ?`, model)
	if err != nil {
		return nil, fmt.Errorf("querying %s hashes: %w", kind, err)
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var id string
		var hash sql.NullString
		if err := rows.Scan(&id, &hash); err != nil {
			return nil, fmt.Errorf("scanning %s hash: %w", kind, err)
		}
		hashes[id] = hash.String
	}
	return hashes, rows.Err()
}

// EmbeddingStats summarizes the database contents.
type EmbeddingStats struct {
	Segments int            `json:"segments"`
	Nuggets  int            `json:"nuggets"`
	Models   map[string]int `json:"models"`
}

// Stats counts stored vectors per kind and per model.
func (d *DB) Stats() (*EmbeddingStats, error) {
	stats := &EmbeddingStats{Models: make(map[string]int)}

	for _, kind := range []Kind{KindSegment, KindNugget} {
		rows, err := d.db.Query(`SELECT COALESCE(model_name, ''), COUNT(*) FROM ` + kind.table() + ` GROUP BY model_name`)
		if err != nil {
			return nil, fmt.Errorf("counting %s embeddings: %w", kind, err)
		}
		for rows.Next() {
			var model string
			var count int
			if err := rows.Scan(&model, &count); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning %s count: %w", kind, err)
			}
			if kind == KindNugget {
				stats.Nuggets += count
			} else {
				stats.Segments += count
			}
			stats.Models[model] += count
		}
		if err := rows.Close(); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

// Clear removes every stored vector.
func (d *DB) Clear() error {
	for _, kind := range []Kind{KindSegment, KindNugget} {
		if _, err := d.db.Exec(`DELETE FROM ` + kind.table()); err != nil {
			return fmt.Errorf("clearing %s embeddings: %w", kind, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmbedding(row rowScanner) (*Embedding, error) {
	var emb Embedding
	var episodeID, segmentID, modelName, textHash sql.NullString
	var vectorJSON string
	var updatedAt int64
	if err := row.Scan(&emb.ID, &episodeID, &segmentID, &modelName, &textHash, &vectorJSON, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(vectorJSON), &emb.Vector); err != nil {
		return nil, fmt.Errorf("decoding vector: %w", err)
	}
	emb.Meta = Meta{
		EpisodeID: episodeID.String,
		SegmentID: segmentID.String,
		ModelName: modelName.String,
		TextHash:  textHash.String,
	}
	emb.UpdatedAt = time.Unix(updatedAt, 0)
	return &emb, nil
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
