package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotImplemented is matched by every NotImplementedError.
var ErrNotImplemented = errors.New("not implemented")

// ConfigError reports invalid or missing command-line input. It is always
// raised before any network activity.
type ConfigError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("invalid configuration")
	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " %q", e.Value)
	}
	if e.Reason != "" {
		b.WriteString(" ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ConnectionError reports a failure to establish the admin session. It is not
// retried.
type ConnectionError struct {
	Broker  string
	Timeout time.Duration
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to broker %s (session timeout %s): %v", e.Broker, e.Timeout, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// RequestTimeoutError reports that a batch did not resolve in time. The broker
// may still have applied some of it.
type RequestTimeoutError struct {
	Timeout time.Duration
	Topics  []string
}

func (e *RequestTimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s waiting for %s", e.Timeout, strings.Join(e.Topics, ", "))
}

// TopicErrorReason classifies a broker-reported per-topic failure.
type TopicErrorReason string

const (
	ReasonAlreadyExists            TopicErrorReason = "already-exists"
	ReasonUnknownTopic             TopicErrorReason = "unknown-topic"
	ReasonInvalidTopic             TopicErrorReason = "invalid-topic"
	ReasonInvalidPartitions        TopicErrorReason = "invalid-partitions"
	ReasonInvalidReplicationFactor TopicErrorReason = "invalid-replication-factor"
	ReasonInvalidConfig            TopicErrorReason = "invalid-config"
	ReasonPolicyViolation          TopicErrorReason = "policy-violation"
	ReasonUnauthorized             TopicErrorReason = "unauthorized"
	ReasonTimeout                  TopicErrorReason = "timeout"
	ReasonBroker                   TopicErrorReason = "broker-error"
)

// TopicError is a failure local to one topic of a batch.
type TopicError struct {
	Name    string
	Reason  TopicErrorReason
	Message string
	Err     error
}

func (e *TopicError) Error() string {
	msg := fmt.Sprintf("topic %q: %s", e.Name, e.Reason)
	if e.Message != "" {
		msg += ": " + e.Message
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TopicError) Unwrap() error { return e.Err }

// NotImplementedError is returned for commands that exist but do nothing yet.
type NotImplementedError struct {
	Operation string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s: %v", e.Operation, ErrNotImplemented)
}

func (e *NotImplementedError) Unwrap() error { return ErrNotImplemented }

// Exit statuses returned by ExitCode.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitConfig         = 2
	ExitConnection     = 3
	ExitRequestTimeout = 4
	ExitNotImplemented = 5
)

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var (
		cfgErr     *ConfigError
		connErr    *ConnectionError
		timeoutErr *RequestTimeoutError
	)
	switch {
	case errors.As(err, &cfgErr):
		return ExitConfig
	case errors.As(err, &connErr):
		return ExitConnection
	case errors.As(err, &timeoutErr):
		return ExitRequestTimeout
	case errors.Is(err, ErrNotImplemented):
		return ExitNotImplemented
	}
	return ExitFailure
}
