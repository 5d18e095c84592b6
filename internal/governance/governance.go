// Package governance implements the interceptor chains that enforce
// document invariants on every store operation. Each entity registers
// a named, ordered chain; repositories run the chain for the matching
// lifecycle point before dispatching to MongoDB. Hooks own exactly one
// mutation, run in registration order, and do no I/O.
package governance

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// Query is the mutable handle a before-query hook may rewrite. It
// accumulates implicit filters, projection tweaks and population
// requests ahead of the caller-supplied query.
type Query struct {
	Filter     bson.M
	Projection bson.M
	Populate   []Populate
}

// Populate asks the repository to resolve a referenced relationship
// after the read, excluding the listed fields from the referenced
// documents.
type Populate struct {
	Path    string
	Exclude []string
}

// Require merges a condition ahead of the caller-supplied filter. A
// caller condition on the same field cannot override it: conflicting
// keys are combined with $and, so both must hold.
func (q *Query) Require(cond bson.M) {
	if q.Filter == nil {
		q.Filter = bson.M{}
	}
	for key, val := range cond {
		existing, taken := q.Filter[key]
		if !taken {
			q.Filter[key] = val
			continue
		}
		and, _ := q.Filter["$and"].([]bson.M)
		and = append(and, bson.M{key: val}, bson.M{key: existing})
		delete(q.Filter, key)
		q.Filter["$and"] = and
	}
}

// ExcludeFields removes fields from the projection unless the caller
// requested an explicit inclusion set.
func (q *Query) ExcludeFields(fields ...string) {
	if q.Projection == nil {
		q.Projection = bson.M{}
	}
	for _, v := range q.Projection {
		if v == 1 {
			return
		}
	}
	for _, f := range fields {
		q.Projection[f] = 0
	}
}

// AddPopulate requests relationship population.
func (q *Query) AddPopulate(p Populate) {
	q.Populate = append(q.Populate, p)
}

// Pipeline is the mutable handle a before-aggregate hook may rewrite.
type Pipeline struct {
	Stages []bson.M
}

// Unshift inserts a stage ahead of every caller-supplied stage.
func (p *Pipeline) Unshift(stage bson.M) {
	p.Stages = append([]bson.M{stage}, p.Stages...)
}

// Hook function signatures per lifecycle point. The doc passed to a
// create hook is the concrete entity pointer; hooks type-assert it.
type (
	CreateFunc    func(ctx context.Context, doc any) error
	QueryFunc     func(ctx context.Context, q *Query) error
	AggregateFunc func(ctx context.Context, p *Pipeline) error
)

type createHook struct {
	name string
	fn   CreateFunc
}

type queryHook struct {
	name string
	fn   QueryFunc
}

type aggregateHook struct {
	name string
	fn   AggregateFunc
}

// Chain is an entity's ordered hook registrations.
type Chain struct {
	entity     string
	creates    []createHook
	queries    []queryHook
	aggregates []aggregateHook
}

// NewChain creates an empty chain for an entity type.
func NewChain(entity string) *Chain {
	return &Chain{entity: entity}
}

// Entity returns the entity name the chain is bound to.
func (c *Chain) Entity() string {
	return c.entity
}

// BeforeCreate registers a named hook invoked before inserts.
func (c *Chain) BeforeCreate(name string, fn CreateFunc) *Chain {
	c.creates = append(c.creates, createHook{name: name, fn: fn})
	return c
}

// BeforeQuery registers a named hook invoked before any read query.
func (c *Chain) BeforeQuery(name string, fn QueryFunc) *Chain {
	c.queries = append(c.queries, queryHook{name: name, fn: fn})
	return c
}

// BeforeAggregate registers a named hook invoked before aggregations.
func (c *Chain) BeforeAggregate(name string, fn AggregateFunc) *Chain {
	c.aggregates = append(c.aggregates, aggregateHook{name: name, fn: fn})
	return c
}

// RunBeforeCreate runs the create hooks in registration order.
func (c *Chain) RunBeforeCreate(ctx context.Context, doc any) error {
	for _, h := range c.creates {
		if err := h.fn(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

// RunBeforeQuery runs the query hooks in registration order.
func (c *Chain) RunBeforeQuery(ctx context.Context, q *Query) error {
	for _, h := range c.queries {
		if err := h.fn(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// RunBeforeAggregate runs the aggregate hooks in registration order.
func (c *Chain) RunBeforeAggregate(ctx context.Context, p *Pipeline) error {
	for _, h := range c.aggregates {
		if err := h.fn(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
