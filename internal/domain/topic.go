package domain

import "time"

// TopicSpec is one validated topic-creation intent.
type TopicSpec struct {
	Name              string
	Partitions        int32
	ReplicationFactor int16
	Configs           map[string]*string
}

// CreateTopicItem is the broker-facing shape of a TopicSpec. Replication is
// fixed: every partition gets ReplicationFactor replicas.
type CreateTopicItem struct {
	Name              string
	NumPartitions     int32
	ReplicationFactor int16
	Configs           map[string]*string
}

// AdminRequest is a batch of creation intents sent in one round trip. The
// broker answers per item; the batch is not atomic.
type AdminRequest struct {
	Items        []CreateTopicItem
	Timeout      time.Duration
	ValidateOnly bool
}

// TopicNames returns the item names in submission order.
func (r AdminRequest) TopicNames() []string {
	out := make([]string, len(r.Items))
	for i, it := range r.Items {
		out[i] = it.Name
	}
	return out
}

// TopicResult is the outcome for one topic of a batch. Err is nil on success.
type TopicResult struct {
	Topic string
	Err   error
}

// OK reports whether the topic was handled successfully.
func (r TopicResult) OK() bool { return r.Err == nil }
