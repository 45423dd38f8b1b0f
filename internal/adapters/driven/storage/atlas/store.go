package atlas

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
)

// Field names shared with existing Atlas deployments.
const (
	fieldFilename   = "filename"
	fieldHeading    = "heading"
	fieldText       = "text"
	fieldPlainText  = "plain_text"
	fieldFormatted  = "formatted_text"
	fieldIdentity   = "unique_chunk_identifier"
	fieldEmbedding  = "embedding"
	fieldScore      = "score"
	fieldTimestamp  = "timestamp"
	identityIndexID = "unique_chunk_identifier_1"
)

const defaultTimeout = 10 * time.Second

var (
	_ driven.VectorStore   = (*Store)(nil)
	_ driven.QuestionStore = (*Store)(nil)
)

// Config holds the connection settings for the Atlas store.
type Config struct {
	URI                 string
	Database            string
	Collection          string
	QuestionsCollection string
	VectorIndex         string
	Timeout             time.Duration
}

// Store implements driven.VectorStore and driven.QuestionStore on MongoDB.
type Store struct {
	client      *mongo.Client
	chunks      *mongo.Collection
	questions   *mongo.Collection
	vectorIndex string
	now         func() time.Time
}

// chunkDocument is the stored shape of a chunk.
type chunkDocument struct {
	Filename      string    `bson:"filename"`
	Heading       string    `bson:"heading"`
	Text          string    `bson:"text"`
	PlainText     string    `bson:"plain_text"`
	FormattedText string    `bson:"formatted_text"`
	Identity      string    `bson:"unique_chunk_identifier"`
	Embedding     []float32 `bson:"embedding,omitempty"`
}

// searchDocument is one row of the $vectorSearch pipeline output.
type searchDocument struct {
	Chunk chunkDocument `bson:",inline"`
	Score float64       `bson:"score"`
}

type questionDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Question  string             `bson:"question"`
	Timestamp time.Time          `bson:"timestamp"`
}

// New connects to MongoDB, pings the primary and ensures the chunk indexes.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo uri: %w", domain.ErrInvalidInput)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %v: %w", err, domain.ErrStoreUnavailable)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %v: %w", err, domain.ErrStoreUnavailable)
	}

	db := client.Database(cfg.Database)
	s := NewFromCollections(db.Collection(cfg.Collection), db.Collection(cfg.QuestionsCollection), cfg.VectorIndex)
	s.client = client

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// NewFromCollections wraps existing collections without connecting or
// creating indexes.
func NewFromCollections(chunks, questions *mongo.Collection, vectorIndex string) *Store {
	if vectorIndex == "" {
		vectorIndex = domain.DefaultVectorIndex
	}
	return &Store{
		chunks:      chunks,
		questions:   questions,
		vectorIndex: vectorIndex,
		now:         time.Now,
	}
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.chunks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: fieldIdentity, Value: 1}},
			Options: options.Index().SetUnique(true).SetName(identityIndexID),
		},
		{Keys: bson.D{{Key: fieldFilename, Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("creating chunk indexes: %v: %w", err, domain.ErrStoreUnavailable)
	}
	return nil
}

// Store upserts the chunk on its identity key.
func (s *Store) Store(ctx context.Context, embedding []float32, chunk domain.Chunk) error {
	key := chunk.IdentityKey()
	doc := chunkDocument{
		Filename:      chunk.Source,
		Heading:       chunk.Heading,
		Text:          chunk.FormattedText,
		PlainText:     chunk.PlainText,
		FormattedText: chunk.FormattedText,
		Identity:      key,
		Embedding:     embedding,
	}

	_, err := s.chunks.UpdateOne(ctx,
		bson.D{{Key: fieldIdentity, Value: key}},
		bson.D{{Key: "$set", Value: doc}},
		options.Update().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", key, domain.ErrDuplicateChunk)
	}
	if err != nil {
		return fmt.Errorf("storing chunk: %v: %w", err, domain.ErrStoreUnavailable)
	}
	return nil
}

// Search runs an Atlas $vectorSearch and keeps hits scoring at least the threshold.
func (s *Store) Search(ctx context.Context, query []float32, opts domain.SearchOptions) ([]domain.SearchHit, error) {
	cur, err := s.chunks.Aggregate(ctx, searchPipeline(s.vectorIndex, query, opts))
	if err != nil {
		return nil, fmt.Errorf("vector search: %v: %w", err, domain.ErrStoreUnavailable)
	}
	defer cur.Close(ctx)

	var docs []searchDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding search results: %w", err)
	}

	hits := make([]domain.SearchHit, 0, len(docs))
	for _, d := range docs {
		hits = append(hits, domain.SearchHit{Chunk: d.Chunk.chunk(), Score: d.Score})
	}
	return hits, nil
}

// searchPipeline builds the $vectorSearch aggregation.
func searchPipeline(index string, query []float32, opts domain.SearchOptions) mongo.Pipeline {
	opts = opts.WithDefaults()
	candidates := opts.Candidates
	if candidates < opts.Limit {
		candidates = opts.Limit
	}

	return mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: index},
			{Key: "path", Value: fieldEmbedding},
			{Key: "queryVector", Value: query},
			{Key: "numCandidates", Value: candidates},
			{Key: "limit", Value: opts.Limit},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: fieldFilename, Value: 1},
			{Key: fieldHeading, Value: 1},
			{Key: fieldText, Value: 1},
			{Key: fieldPlainText, Value: 1},
			{Key: fieldFormatted, Value: 1},
			{Key: fieldScore, Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
		{{Key: "$match", Value: bson.D{
			{Key: fieldScore, Value: bson.D{{Key: "$gte", Value: opts.Threshold}}},
		}}},
	}
}

// FetchAllChunks returns a source's chunks in insertion order.
func (s *Store) FetchAllChunks(ctx context.Context, source string) ([]domain.Chunk, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.D{{Key: fieldEmbedding, Value: 0}})
	cur, err := s.chunks.Find(ctx, bson.D{{Key: fieldFilename, Value: source}}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("fetching chunks: %v: %w", err, domain.ErrStoreUnavailable)
	}
	defer cur.Close(ctx)

	var docs []chunkDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding chunks: %w", err)
	}

	chunks := make([]domain.Chunk, 0, len(docs))
	for _, d := range docs {
		chunks = append(chunks, d.chunk())
	}
	return chunks, nil
}

// Exists reports whether a chunk with the identity key is stored.
func (s *Store) Exists(ctx context.Context, identityKey string) (bool, error) {
	err := s.chunks.FindOne(ctx,
		bson.D{{Key: fieldIdentity, Value: identityKey}},
		options.FindOne().SetProjection(bson.D{{Key: "_id", Value: 1}}),
	).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking chunk: %v: %w", err, domain.ErrStoreUnavailable)
	}
	return true, nil
}

// ListSources returns the distinct filenames, sorted.
func (s *Store) ListSources(ctx context.Context) ([]string, error) {
	values, err := s.chunks.Distinct(ctx, fieldFilename, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("listing sources: %v: %w", err, domain.ErrStoreUnavailable)
	}

	sources := make([]string, 0, len(values))
	for _, v := range values {
		if name, ok := v.(string); ok {
			sources = append(sources, name)
		}
	}
	sort.Strings(sources)
	return sources, nil
}

// Record inserts an unanswered question; the ObjectID hex is its ID.
func (s *Store) Record(ctx context.Context, question string) (domain.UnansweredQuestion, error) {
	doc := questionDocument{
		ID:        primitive.NewObjectID(),
		Question:  question,
		Timestamp: s.now().UTC(),
	}
	if _, err := s.questions.InsertOne(ctx, doc); err != nil {
		return domain.UnansweredQuestion{}, fmt.Errorf("recording question: %v: %w", err, domain.ErrStoreUnavailable)
	}
	return doc.question(), nil
}

// List returns every question, newest first.
func (s *Store) List(ctx context.Context) ([]domain.UnansweredQuestion, error) {
	cur, err := s.questions.Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: fieldTimestamp, Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("listing questions: %v: %w", err, domain.ErrStoreUnavailable)
	}
	defer cur.Close(ctx)

	var docs []questionDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding questions: %w", err)
	}

	list := make([]domain.UnansweredQuestion, 0, len(docs))
	for _, d := range docs {
		list = append(list, d.question())
	}
	return list, nil
}

// Delete removes a question by its ObjectID hex.
func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%s: %w", id, domain.ErrNotFound)
	}
	res, err := s.questions.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("deleting question: %v: %w", err, domain.ErrStoreUnavailable)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Close disconnects the client, if this store owns one.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (d chunkDocument) chunk() domain.Chunk {
	formatted := d.FormattedText
	if formatted == "" {
		formatted = d.Text
	}
	return domain.Chunk{
		Source:        d.Filename,
		Heading:       d.Heading,
		PlainText:     d.PlainText,
		FormattedText: formatted,
	}
}

func (d questionDocument) question() domain.UnansweredQuestion {
	return domain.UnansweredQuestion{
		ID:        d.ID.Hex(),
		Question:  d.Question,
		Timestamp: d.Timestamp.UTC(),
	}
}
