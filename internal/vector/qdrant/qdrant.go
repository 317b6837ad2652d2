package qdrant

import (
	"context"
	"fmt"

	"github.com/efebarandurmaz/trustgraph/internal/observability"
	"github.com/efebarandurmaz/trustgraph/internal/vector"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// QdrantRepository implements vector.Repository using Qdrant.
type QdrantRepository struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
}

// NewQdrant creates a Qdrant-backed repository.
func NewQdrant(ctx context.Context, host string, port int, collection string) (*QdrantRepository, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant connect: %w", err)
	}
	return &QdrantRepository{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
	}, nil
}

func (r *QdrantRepository) EnsureCollection(ctx context.Context, dims int) (err error) {
	ctx, span := observability.StartSinkSpan(ctx, "qdrant", "ensure_collection")
	defer func() {
		observability.RecordError(span, err)
		span.End()
	}()

	exists, err := r.collections.CollectionExists(ctx, &pb.CollectionExistsRequest{CollectionName: r.collection})
	if err != nil {
		return fmt.Errorf("check collection %s: %w", r.collection, err)
	}
	if exists.GetResult().GetExists() {
		return nil
	}
	if _, err := r.collections.Create(ctx, createRequest(r.collection, dims)); err != nil {
		return fmt.Errorf("create collection %s: %w", r.collection, err)
	}
	return nil
}

func (r *QdrantRepository) Upsert(ctx context.Context, points []vector.Point) (err error) {
	ctx, span := observability.StartSinkSpan(ctx, "qdrant", "upsert")
	defer func() {
		observability.RecordError(span, err)
		span.End()
	}()

	wait := true
	_, err = r.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.collection,
		Wait:           &wait,
		Points:         toPointStructs(points),
	})
	return err
}

func (r *QdrantRepository) Search(ctx context.Context, vec []float32, topK int) (_ []vector.SearchResult, err error) {
	ctx, span := observability.StartSinkSpan(ctx, "qdrant", "search")
	defer func() {
		observability.RecordError(span, err)
		span.End()
	}()

	resp, err := r.points.Search(ctx, &pb.SearchPoints{
		CollectionName: r.collection,
		Vector:         vec,
		Limit:          uint64(topK),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, err
	}
	return fromScoredPoints(resp.GetResult()), nil
}

func (r *QdrantRepository) Close() error {
	return r.conn.Close()
}

var _ vector.Repository = (*QdrantRepository)(nil)
