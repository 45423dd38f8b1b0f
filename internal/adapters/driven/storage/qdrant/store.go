// Package qdrant implements the vector store on a Qdrant server over gRPC.
//
// Point ids are UUIDv5 values derived from the chunk identity key, so a
// re-ingested chunk overwrites its previous point. Unanswered questions are
// not kept in Qdrant; pair this store with another driven.QuestionStore.
package qdrant

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/pmatancambium/cambium-procedures/internal/adapters/driven/storage/similarity"
	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
)

// Payload keys. They mirror the MongoDB document fields.
const (
	keyFilename  = "filename"
	keyHeading   = "heading"
	keyText      = "text"
	keyPlainText = "plain_text"
	keyFormatted = "formatted_text"
	keyIdentity  = "unique_chunk_identifier"
	keySeq       = "seq"
)

const scrollPage = 256

// pointNamespace seeds the UUIDv5 point ids.
var pointNamespace = uuid.MustParse("6f1c2a1e-4b7d-5c3e-9a8f-0d2e4b6c8a10")

var _ driven.VectorStore = (*Store)(nil)

// Client is the subset of *qdrant.Client the store uses.
type Client interface {
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	CreateFieldIndex(ctx context.Context, request *qdrant.CreateFieldIndexCollection) (*qdrant.UpdateResult, error)
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Get(ctx context.Context, request *qdrant.GetPoints) ([]*qdrant.RetrievedPoint, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	Scroll(ctx context.Context, request *qdrant.ScrollPoints) ([]*qdrant.RetrievedPoint, error)
	Close() error
}

// Config holds the Qdrant connection settings.
type Config struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
	Dimensions int
}

// Store implements driven.VectorStore on a Qdrant collection.
type Store struct {
	client     Client
	collection string
	now        func() time.Time
}

// New connects to Qdrant and creates the collection when missing.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("qdrant dimensions %d: %w", cfg.Dimensions, domain.ErrInvalidInput)
	}
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %v: %w", err, domain.ErrStoreUnavailable)
	}

	s := NewWithClient(client, cfg.Collection)
	if err := s.ensureCollection(ctx, cfg.Dimensions); err != nil {
		client.Close()
		return nil, err
	}
	return s, nil
}

// NewWithClient wraps an existing client without touching the collection.
func NewWithClient(client Client, collection string) *Store {
	if collection == "" {
		collection = domain.DefaultCollection
	}
	return &Store{client: client, collection: collection, now: time.Now}
}

func (s *Store) ensureCollection(ctx context.Context, dims int) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("checking collection: %v: %w", err, domain.ErrStoreUnavailable)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dims),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("creating collection: %v: %w", err, domain.ErrStoreUnavailable)
	}

	for _, field := range []string{keyFilename, keyIdentity} {
		_, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: s.collection,
			FieldName:      field,
			FieldType:      qdrant.PtrOf(qdrant.FieldType_FieldTypeKeyword),
			Wait:           qdrant.PtrOf(true),
		})
		if err != nil {
			return fmt.Errorf("indexing %s: %v: %w", field, err, domain.ErrStoreUnavailable)
		}
	}
	return nil
}

// PointID returns the point id for an identity key.
func PointID(identityKey string) string {
	return uuid.NewSHA1(pointNamespace, []byte(identityKey)).String()
}

// Store upserts the chunk. An overwritten chunk keeps its original sequence.
func (s *Store) Store(ctx context.Context, embedding []float32, chunk domain.Chunk) error {
	key := chunk.IdentityKey()
	id := qdrant.NewID(PointID(key))

	seq := s.now().UnixNano()
	existing, err := s.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: s.collection,
		Ids:            []*qdrant.PointId{id},
		WithPayload:    qdrant.NewWithPayloadInclude(keySeq),
	})
	if err != nil {
		return fmt.Errorf("reading point: %v: %w", err, domain.ErrStoreUnavailable)
	}
	if len(existing) > 0 {
		seq = existing[0].GetPayload()[keySeq].GetIntegerValue()
	}

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(true),
		Points: []*qdrant.PointStruct{{
			Id:      id,
			Vectors: qdrant.NewVectors(embedding...),
			Payload: payload(chunk, seq),
		}},
	})
	if err != nil {
		return fmt.Errorf("upserting point: %v: %w", err, domain.ErrStoreUnavailable)
	}
	return nil
}

// Search queries the collection with the server-side score threshold.
// Qdrant reports raw cosine, so scores and the threshold are converted to
// the (1+cos)/2 scale used by the other backends.
func (s *Store) Search(ctx context.Context, query []float32, opts domain.SearchOptions) ([]domain.SearchHit, error) {
	opts = opts.WithDefaults()
	limit := opts.Limit
	if opts.Candidates < limit {
		limit = opts.Candidates
	}

	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		ScoreThreshold: qdrant.PtrOf(float32(similarity.CosineThreshold(opts.Threshold))),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("querying points: %v: %w", err, domain.ErrStoreUnavailable)
	}

	hits := make([]domain.SearchHit, 0, len(points))
	for _, p := range points {
		score := similarity.Score(float64(p.GetScore()))
		if score < opts.Threshold {
			continue
		}
		hits = append(hits, domain.SearchHit{
			Chunk: chunkFromPayload(p.GetPayload()),
			Score: score,
		})
	}
	return hits, nil
}

// FetchAllChunks scrolls the source's points and orders them by sequence.
func (s *Store) FetchAllChunks(ctx context.Context, source string) ([]domain.Chunk, error) {
	filter := &qdrant.Filter{Must: []*qdrant.Condition{qdrant.NewMatch(keyFilename, source)}}
	points, err := s.scrollAll(ctx, filter, qdrant.NewWithPayload(true))
	if err != nil {
		return nil, err
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].GetPayload()[keySeq].GetIntegerValue() < points[j].GetPayload()[keySeq].GetIntegerValue()
	})

	chunks := make([]domain.Chunk, 0, len(points))
	for _, p := range points {
		chunks = append(chunks, chunkFromPayload(p.GetPayload()))
	}
	return chunks, nil
}

// Exists looks the derived point id up directly.
func (s *Store) Exists(ctx context.Context, identityKey string) (bool, error) {
	points, err := s.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: s.collection,
		Ids:            []*qdrant.PointId{qdrant.NewID(PointID(identityKey))},
		WithPayload:    qdrant.NewWithPayload(false),
	})
	if err != nil {
		return false, fmt.Errorf("reading point: %v: %w", err, domain.ErrStoreUnavailable)
	}
	return len(points) > 0, nil
}

// ListSources scrolls every point's filename.
func (s *Store) ListSources(ctx context.Context) ([]string, error) {
	points, err := s.scrollAll(ctx, nil, qdrant.NewWithPayloadInclude(keyFilename))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var sources []string
	for _, p := range points {
		name := p.GetPayload()[keyFilename].GetStringValue()
		if _, ok := seen[name]; ok || name == "" {
			continue
		}
		seen[name] = struct{}{}
		sources = append(sources, name)
	}
	sort.Strings(sources)
	return sources, nil
}

// Close closes the gRPC connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// scrollAll pages through the collection. Qdrant's scroll offset is
// inclusive, so every page after the first repeats its first point.
func (s *Store) scrollAll(ctx context.Context, filter *qdrant.Filter, with *qdrant.WithPayloadSelector) ([]*qdrant.RetrievedPoint, error) {
	var (
		all    []*qdrant.RetrievedPoint
		offset *qdrant.PointId
	)
	for {
		page, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: s.collection,
			Filter:         filter,
			Offset:         offset,
			Limit:          qdrant.PtrOf(uint32(scrollPage)),
			WithPayload:    with,
		})
		if err != nil {
			return nil, fmt.Errorf("scrolling points: %v: %w", err, domain.ErrStoreUnavailable)
		}

		fresh := page
		if offset != nil && len(fresh) > 0 && fresh[0].GetId().GetUuid() == offset.GetUuid() {
			fresh = fresh[1:]
		}
		all = append(all, fresh...)

		if len(page) < scrollPage || len(fresh) == 0 {
			return all, nil
		}
		offset = page[len(page)-1].GetId()
	}
}

func payload(c domain.Chunk, seq int64) map[string]*qdrant.Value {
	return map[string]*qdrant.Value{
		keyFilename:  qdrant.NewValueString(c.Source),
		keyHeading:   qdrant.NewValueString(c.Heading),
		keyText:      qdrant.NewValueString(c.FormattedText),
		keyPlainText: qdrant.NewValueString(c.PlainText),
		keyFormatted: qdrant.NewValueString(c.FormattedText),
		keyIdentity:  qdrant.NewValueString(c.IdentityKey()),
		keySeq:       qdrant.NewValueInt(seq),
	}
}

func chunkFromPayload(p map[string]*qdrant.Value) domain.Chunk {
	formatted := p[keyFormatted].GetStringValue()
	if formatted == "" {
		formatted = p[keyText].GetStringValue()
	}
	return domain.Chunk{
		Source:        p[keyFilename].GetStringValue(),
		Heading:       p[keyHeading].GetStringValue(),
		PlainText:     p[keyPlainText].GetStringValue(),
		FormattedText: formatted,
	}
}
