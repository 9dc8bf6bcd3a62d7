package domain

import "context"

// AdminSession is an open connection to a cluster's administrative endpoint.
// It is owned by one command invocation and must be closed by it.
type AdminSession interface {
	// Cluster returns what was learned about the cluster while connecting.
	Cluster() *Cluster
	// SubmitCreateTopics sends req in a single round trip and returns
	// immediately; results arrive on the returned batch.
	SubmitCreateTopics(ctx context.Context, req AdminRequest) *PendingBatch
	ListTopics(ctx context.Context, showInternal bool) (map[string]int, error)
	DeleteTopics(ctx context.Context, names ...string) ([]TopicResult, error)
	Close()
}
