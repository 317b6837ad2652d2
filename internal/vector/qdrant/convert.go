package qdrant

import (
	"github.com/efebarandurmaz/trustgraph/internal/network"
	"github.com/efebarandurmaz/trustgraph/internal/vector"
	pb "github.com/qdrant/go-client/qdrant"
)

func createRequest(collection string, dims int) *pb.CreateCollection {
	return &pb.CreateCollection{
		CollectionName: collection,
		VectorsConfig: &pb.VectorsConfig{Config: &pb.VectorsConfig_Params{
			Params: &pb.VectorParams{
				Size:     uint64(dims),
				Distance: pb.Distance_Cosine,
			},
		}},
	}
}

// Node ids map directly onto numeric point ids.
func toPointStructs(points []vector.Point) []*pb.PointStruct {
	out := make([]*pb.PointStruct, len(points))
	for i, p := range points {
		payload := make(map[string]*pb.Value, len(p.Payload)+1)
		payload["node"] = &pb.Value{Kind: &pb.Value_IntegerValue{IntegerValue: int64(p.Node)}}
		for k, v := range p.Payload {
			payload[k] = &pb.Value{Kind: &pb.Value_DoubleValue{DoubleValue: v}}
		}
		out[i] = &pb.PointStruct{
			Id:      &pb.PointId{PointIdOptions: &pb.PointId_Num{Num: uint64(p.Node)}},
			Vectors: &pb.Vectors{VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: p.Vector}}},
			Payload: payload,
		}
	}
	return out
}

func fromScoredPoints(points []*pb.ScoredPoint) []vector.SearchResult {
	results := make([]vector.SearchResult, len(points))
	for i, pt := range points {
		meta := make(map[string]float64)
		for k, v := range pt.GetPayload() {
			if k == "node" {
				continue
			}
			meta[k] = v.GetDoubleValue()
		}
		results[i] = vector.SearchResult{
			Node:    network.NodeID(pt.GetId().GetNum()),
			Score:   pt.GetScore(),
			Payload: meta,
		}
	}
	return results
}
