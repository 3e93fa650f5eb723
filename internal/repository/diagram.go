package repository

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"shogi_diagram/internal/bootstrap"
	"shogi_diagram/internal/domain/diagram"
	errs "shogi_diagram/internal/errors"
)

const (
	diagramsCollection = "diagrams"
	opTimeout          = 5 * time.Second

	renderedKeyPrefix = "rendered:"
	defaultCacheTTL   = time.Hour
	defaultPageLimit  = 20
)

type DiagramRepository struct {
	cfg   bootstrap.Config
	log   *zap.SugaredLogger
	redis *redis.Client
	mongo *mongo.Database
}

func NewDiagramRepository(cfg bootstrap.Config, log *zap.SugaredLogger, redisClient *redis.Client, mongoDB *mongo.Database) *DiagramRepository {
	return &DiagramRepository{
		cfg:   cfg,
		log:   log,
		redis: redisClient,
		mongo: mongoDB,
	}
}

func (d *DiagramRepository) SaveDiagram(ctx context.Context, record *diagram.Record) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	_, err := d.mongo.Collection(diagramsCollection).InsertOne(ctx, record)
	if err != nil {
		d.log.Error("diagram insert failed: ", err)
		return fmt.Errorf("diagram insert failed: %w", err)
	}
	return nil
}

func (d *DiagramRepository) GetDiagramByID(ctx context.Context, id string) (*diagram.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var record diagram.Record
	err := d.mongo.Collection(diagramsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: id %s", errs.ErrDiagramNotFound, id)
	}
	if err != nil {
		d.log.Error("diagram lookup failed: ", err)
		return nil, fmt.Errorf("diagram lookup failed: %w", err)
	}
	return &record, nil
}

func (d *DiagramRepository) ListDiagrams(ctx context.Context, pageNum int) (*diagram.RecordPage, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	limit := d.cfg.PageLimitDiagrams
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if pageNum < 1 {
		pageNum = 1
	}

	collection := d.mongo.Collection(diagramsCollection)

	total, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("diagram count failed: %w", err)
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	findOpts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64((pageNum - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("diagram list failed: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]diagram.Record, 0, limit)
	if err = cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("diagram list decode failed: %w", err)
	}

	return &diagram.RecordPage{
		PageNum:    pageNum,
		TotalPages: totalPages,
		Diagrams:   records,
	}, nil
}

// CacheRendered stores the rendered payload for a notation block, keyed by a
// hash of the raw source so identical blocks across documents share one entry.
func (d *DiagramRepository) CacheRendered(ctx context.Context, source string, payload []byte) error {
	ttl := time.Duration(d.cfg.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return d.redis.Set(ctx, renderedKeyPrefix+contentHash(source), payload, ttl).Err()
}

func (d *DiagramRepository) LoadRendered(ctx context.Context, source string) ([]byte, bool, error) {
	payload, err := d.redis.Get(ctx, renderedKeyPrefix+contentHash(source)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func contentHash(source string) string {
	sum := md5.Sum([]byte(source))
	return hex.EncodeToString(sum[:])
}
