package crawl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/pevans/fightrecords/records"
)

// Sink receives records as they are extracted.
type Sink interface {
	Write(ctx context.Context, runID uuid.UUID, rec records.Record) error
}

// MultiSink writes every record to each sink in order and stops at the
// first failure.
type MultiSink []Sink

func (m MultiSink) Write(ctx context.Context, runID uuid.UUID, rec records.Record) error {
	for _, sink := range m {
		if err := sink.Write(ctx, runID, rec); err != nil {
			return err
		}
	}
	return nil
}

// JSONLinesSink writes one JSON object per line.
type JSONLinesSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewJSONLinesSink(w io.Writer) *JSONLinesSink {
	return &JSONLinesSink{enc: json.NewEncoder(w)}
}

type jsonLine struct {
	RunID uuid.UUID `json:"run_id"`
	records.Record
}

func (s *JSONLinesSink) Write(_ context.Context, runID uuid.UUID, rec records.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enc.Encode(jsonLine{RunID: runID, Record: rec}); err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	return nil
}
