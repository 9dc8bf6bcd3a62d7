package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/OliveiraNt/kafkaman/internal/config"
	"github.com/OliveiraNt/kafkaman/internal/domain"
	"github.com/OliveiraNt/kafkaman/internal/utils"
	"github.com/samber/lo"
)

// Dispatcher runs one invocation through its lifecycle:
// init, configuring, executing, reconciling, then completed or failed.
type Dispatcher struct {
	factory SessionFactory
	out     io.Writer
}

// NewDispatcher creates a dispatcher. Listings are written to out.
func NewDispatcher(factory SessionFactory, out io.Writer) *Dispatcher {
	return &Dispatcher{factory: factory, out: out}
}

// Configuring turns the outcome of building an invocation into a failed
// CommandOutcome when err is set.
func Configuring(op config.Operation, err error) (domain.CommandOutcome, bool) {
	transition(string(op), domain.StateInit, domain.StateConfiguring)
	if err == nil {
		return domain.CommandOutcome{}, false
	}
	return fail(domain.CommandOutcome{Operation: string(op), State: domain.StateConfiguring}, err), true
}

// Run executes inv. The admin session, when one is needed, is opened here and
// closed before Run returns.
func (d *Dispatcher) Run(ctx context.Context, inv *config.Invocation) domain.CommandOutcome {
	outcome := domain.CommandOutcome{Operation: string(inv.Operation), State: domain.StateConfiguring}

	switch inv.Operation {
	case config.OpEcho, config.OpProduce:
		return fail(outcome, &domain.NotImplementedError{Operation: string(inv.Operation)})
	case config.OpCreateTopic, config.OpDeleteTopic, config.OpListTopics:
	default:
		return fail(outcome, &domain.ConfigError{Field: "command", Value: string(inv.Operation), Reason: "unknown command"})
	}

	outcome = d.advance(outcome, domain.StateExecuting)
	session, err := d.factory.Open(ctx, inv.Cluster, inv.SessionTimeout)
	if err != nil {
		return fail(outcome, err)
	}
	defer session.Close()

	if c := session.Cluster(); c != nil {
		utils.Logger.Debug("connected", "cluster_id", c.ID, "brokers", len(c.Brokers))
	}

	svc := NewTopicService(session)
	switch inv.Operation {
	case config.OpCreateTopic:
		return d.createTopics(ctx, svc, inv, outcome)
	case config.OpDeleteTopic:
		return d.deleteTopics(ctx, svc, inv, outcome)
	default:
		return d.listTopics(ctx, svc, inv, outcome)
	}
}

func (d *Dispatcher) createTopics(ctx context.Context, svc *TopicService, inv *config.Invocation, outcome domain.CommandOutcome) domain.CommandOutcome {
	batch := svc.SubmitCreateTopics(ctx, inv.Topics, inv.RequestTimeout, inv.DryRun)
	outcome = d.advance(outcome, domain.StateReconciling)
	outcome.Results = Reconcile(ctx, batch)
	return finish(outcome)
}

func (d *Dispatcher) deleteTopics(ctx context.Context, svc *TopicService, inv *config.Invocation, outcome domain.CommandOutcome) domain.CommandOutcome {
	rctx, cancel := context.WithTimeout(ctx, inv.RequestTimeout)
	defer cancel()

	results, err := svc.DeleteTopics(rctx, inv.Names)
	if err != nil {
		return fail(outcome, requestError(err, inv))
	}
	outcome = d.advance(outcome, domain.StateReconciling)
	outcome.Results = results
	return finish(outcome)
}

func (d *Dispatcher) listTopics(ctx context.Context, svc *TopicService, inv *config.Invocation, outcome domain.CommandOutcome) domain.CommandOutcome {
	rctx, cancel := context.WithTimeout(ctx, inv.RequestTimeout)
	defer cancel()

	topics, err := svc.ListTopics(rctx, inv.ListInternal)
	if err != nil {
		return fail(outcome, requestError(err, inv))
	}
	outcome = d.advance(outcome, domain.StateReconciling)
	outcome.Topics = topics

	names := lo.Keys(topics)
	slices.Sort(names)
	for _, n := range names {
		if _, err := fmt.Fprintf(d.out, "%s\t%d\n", n, topics[n]); err != nil {
			return fail(outcome, err)
		}
	}
	return finish(outcome)
}

func (d *Dispatcher) advance(outcome domain.CommandOutcome, to domain.State) domain.CommandOutcome {
	transition(outcome.Operation, outcome.State, to)
	outcome.State = to
	return outcome
}

// finish completes the outcome, or fails it with every per-topic error joined
// when any topic failed. Topics that did succeed are not rolled back.
func finish(outcome domain.CommandOutcome) domain.CommandOutcome {
	if failures := outcome.Failures(); len(failures) > 0 {
		return fail(outcome, errors.Join(failures...))
	}
	transition(outcome.Operation, outcome.State, domain.StateCompleted)
	outcome.State = domain.StateCompleted
	return outcome
}

func fail(outcome domain.CommandOutcome, err error) domain.CommandOutcome {
	utils.Logger.Error("command failed", "command", outcome.Operation, "state", outcome.State, "err", err)
	transition(outcome.Operation, outcome.State, domain.StateFailed)
	outcome.State = domain.StateFailed
	outcome.Err = err
	return outcome
}

func transition(op string, from, to domain.State) {
	utils.Logger.Debug("state transition", "command", op, "from", from, "to", to)
}

// requestError reports a request that ran out of time as a
// RequestTimeoutError.
func requestError(err error, inv *config.Invocation) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.RequestTimeoutError{Timeout: inv.RequestTimeout, Topics: inv.Names}
	}
	return err
}
