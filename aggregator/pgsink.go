package aggregator

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"github.com/clipforge/pipeline/model"
)

// PostgresSink mirrors every saved ProcessingResult into a
// "pipeline_results" table, one insert per completion. A nil
// *PostgresSink disables the sink.
type PostgresSink struct {
	db *sql.DB
}

// NewPostgresSink opens a connection pool against a Postgres DSN. Callers
// own the returned sink's lifetime and should Close it on shutdown.
func NewPostgresSink(dsn string) (*PostgresSink, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresSink{db: db}, nil
}

// NewPostgresSinkFromDB wraps an already-open *sql.DB, primarily so tests
// can inject a go-sqlmock connection.
func NewPostgresSinkFromDB(db *sql.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

const insertResultStmt = `insert into "pipeline_results"(
                            "task_id",
                            "video_url",
                            "platform",
                            "video_path",
                            "audio_path",
                            "processing_time",
                            "status",
                            "created_at"
                            ) values($1, $2, $3, $4, $5, $6, $7, $8)`

// Insert records result. Errors are returned for the caller to log; a
// failure here never blocks Save from completing the local file write.
func (s *PostgresSink) Insert(result *model.ProcessingResult) error {
	_, err := s.db.Exec(
		insertResultStmt,
		result.TaskID,
		result.VideoMetadata.URL,
		result.VideoMetadata.Platform,
		result.VideoPath,
		result.AudioPath,
		result.ProcessingTime,
		result.Status,
		result.CreatedAt.Format(time.RFC3339),
	)
	return err
}

// Close releases the underlying connection pool.
func (s *PostgresSink) Close() error {
	return s.db.Close()
}
