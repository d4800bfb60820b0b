// Package graph publishes compiled diagrams to the knowledge graph.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/natsclient"

	"github.com/theengineear/upper-doodle-sub000/compile"
	"github.com/theengineear/upper-doodle-sub000/export"
)

// Subject for graph ingestion.
const GraphIngestSubject = "graph.ingest.entity"

// Source recorded on every published triple.
const tripleSource = "upper-doodle.compile"

// EntityIngestMessage is the message format for graph ingestion.
type EntityIngestMessage struct {
	ID        string           `json:"id"`
	Triples   []message.Triple `json:"triples"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// PublishModel publishes a compiled domain model to the knowledge graph.
func PublishModel(ctx context.Context, nc *natsclient.Client, domain string, result compile.Result) error {
	if nc == nil {
		return nil // Skip publishing if no NATS client (graceful degradation)
	}

	msg, err := ModelIngestMessage(domain, result)
	if err != nil {
		return err
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal model entity: %w", err)
	}

	if err := nc.PublishToStream(ctx, GraphIngestSubject, data); err != nil {
		return fmt.Errorf("publish model entity: %w", err)
	}

	return nil
}

// ModelIngestMessage converts a compile result into the graph ingest format.
func ModelIngestMessage(domain string, result compile.Result) (EntityIngestMessage, error) {
	parsed, err := export.ParseNTriples(result.UsedPrefixes, result.NTriples)
	if err != nil {
		return EntityIngestMessage{}, fmt.Errorf("parse compiled triples: %w", err)
	}

	entityID := ModelEntityID(domain)
	now := time.Now()

	triples := make([]message.Triple, 0, len(parsed))
	for _, t := range parsed {
		triples = append(triples, message.Triple{
			Subject:    subjectValue(t.Subject),
			Predicate:  t.Predicate.Value,
			Object:     objectValue(t.Object),
			Source:     tripleSource,
			Timestamp:  now,
			Confidence: 1.0,
		})
	}

	return EntityIngestMessage{
		ID:        entityID,
		Triples:   triples,
		UpdatedAt: now,
	}, nil
}

// subjectValue renders a subject node: the bare URI, or the blank-node token.
func subjectValue(n export.Node) string {
	if u, ok := n.(export.URINode); ok {
		return u.Value
	}
	return n.Key()
}

// objectValue flattens a parsed node into a message object value.
func objectValue(n export.Node) any {
	switch o := n.(type) {
	case export.URINode:
		return o.Value
	case export.BlankNode:
		return o.Key()
	case export.LiteralNode:
		return o.Value
	}
	return n.Key()
}

// ModelEntityID generates a consistent entity ID for a domain model.
// Format: upper.local.domain.model.<domain>
func ModelEntityID(domain string) string {
	return fmt.Sprintf("upper.local.domain.model.%s", domain)
}
