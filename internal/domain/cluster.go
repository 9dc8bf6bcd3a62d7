// Package domain defines the types shared by the command dispatcher and the
// broker session, including the errors that decide the exit status.
package domain

// Cluster is what the session learned about the cluster while connecting.
type Cluster struct {
	ID         string
	Controller int32
	Brokers    []BrokerDetail
}

// BrokerDetail holds the address of one live broker.
type BrokerDetail struct {
	ID   int32
	Host string
	Port int32
	Rack string
}
