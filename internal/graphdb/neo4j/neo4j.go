package neo4j

import (
	"context"
	"fmt"

	"github.com/efebarandurmaz/trustgraph/internal/analysis"
	"github.com/efebarandurmaz/trustgraph/internal/graphdb"
	"github.com/efebarandurmaz/trustgraph/internal/network"
	"github.com/efebarandurmaz/trustgraph/internal/observability"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// batchSize bounds the rows sent in one UNWIND statement.
const batchSize = 500

const (
	mergeAccounts = "UNWIND $rows AS row " +
		"MERGE (a:Account {id: row.id}) " +
		"SET a.indegree = row.indegree, a.outdegree = row.outdegree, " +
		"a.clustering = row.clustering, a.trust = row.trust, a.component = row.component"

	clearTrusts = "MATCH (:Account)-[r:TRUSTS]->(:Account) DELETE r"

	// Repeated ratings are distinct relationships, so edges are created
	// rather than merged.
	createTrusts = "UNWIND $rows AS row " +
		"MATCH (a:Account {id: row.from}), (b:Account {id: row.to}) " +
		"CREATE (a)-[:TRUSTS {weight: row.weight, timestamp: row.timestamp}]->(b)"

	readTrusts = "MATCH (a:Account)-[r:TRUSTS]->(b:Account) " +
		"RETURN a.id AS from, b.id AS to, r.weight AS weight, r.timestamp AS timestamp " +
		"ORDER BY from, to"
)

// Neo4jRepository implements graphdb.Repository using Neo4j.
type Neo4jRepository struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4j creates a Neo4j-backed repository and verifies connectivity.
func NewNeo4j(ctx context.Context, uri, username, password, database string) (*Neo4jRepository, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4j connectivity: %w", err)
	}
	return &Neo4jRepository{driver: driver, database: database}, nil
}

func (r *Neo4jRepository) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: r.database,
	})
}

// StoreAnalysis upserts every account with its metrics, then replaces all
// TRUSTS edges. The edge replacement runs in a single transaction, so a
// failed store leaves the previous edges in place.
func (r *Neo4jRepository) StoreAnalysis(ctx context.Context, info *analysis.GraphInfo) (err error) {
	ctx, span := observability.StartSinkSpan(ctx, "neo4j", "store_analysis")
	defer func() {
		observability.RecordError(span, err)
		span.End()
	}()
	observability.RecordGraphSize(span, info.NodeCount(), info.Graph.EdgeCount())

	session := r.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	for i, rows := range batches(accountRows(info), batchSize) {
		if err := r.write(ctx, session, statement{query: mergeAccounts, params: rowParams(rows)}); err != nil {
			return fmt.Errorf("store accounts batch %d: %w", i, err)
		}
	}

	if err := r.write(ctx, session, edgeStatements(info.Graph.Edges(), batchSize)...); err != nil {
		return fmt.Errorf("replace trust edges: %w", err)
	}
	return nil
}

// write runs stmts in order inside one managed transaction.
func (r *Neo4jRepository) write(ctx context.Context, session neo4j.SessionWithContext, stmts ...statement) error {
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for i, st := range stmts {
			res, err := tx.Run(ctx, st.query, st.params)
			if err != nil {
				return nil, fmt.Errorf("statement %d: %w", i, err)
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, fmt.Errorf("statement %d: %w", i, err)
			}
		}
		return nil, nil
	})
	return err
}

func (r *Neo4jRepository) LoadEdges(ctx context.Context) (_ []network.Edge, err error) {
	ctx, span := observability.StartSinkSpan(ctx, "neo4j", "load_edges")
	defer func() {
		observability.RecordError(span, err)
		span.End()
	}()

	session := r.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx, readTrusts, nil)
		if err != nil {
			return nil, err
		}
		var edges []network.Edge
		for records.Next(ctx) {
			rec := records.Record()
			from, _ := rec.Get("from")
			to, _ := rec.Get("to")
			weight, _ := rec.Get("weight")
			ts, _ := rec.Get("timestamp")
			e, err := edgeFromValues(from, to, weight, ts)
			if err != nil {
				return nil, err
			}
			edges = append(edges, e)
		}
		return edges, records.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("load trust edges: %w", err)
	}
	edges, _ := result.([]network.Edge)
	observability.RecordGraphSize(span, 0, len(edges))
	return edges, nil
}

func (r *Neo4jRepository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

var _ graphdb.Repository = (*Neo4jRepository)(nil)
