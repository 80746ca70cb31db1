package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/edureport/internal/model"
)

// Plan selects the steps run for every identity.
type Plan struct {
	// Date is the explicit report date. Zero means automatic for the timetable.
	Date time.Time

	// LunchOnly replaces the timetable, grades and notifications with the lunch step.
	LunchOnly bool

	// Now replaces time.Now for timetable date resolution. Nil means time.Now.
	Now func() time.Time

	// GradeLimit and NotificationLimit default to DefaultGradeLimit and
	// DefaultNotificationLimit when zero.
	GradeLimit        int
	NotificationLimit int
}

// NewPipelineFactory returns a factory that builds the report pipeline for
// one school session according to plan.
func NewPipelineFactory(plan Plan, logger *slog.Logger) func(Portal) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	return func(portal Portal) *Pipeline {
		p := New(WithLogger(logger))

		if plan.LunchOnly {
			p.AddStep(NewLunchStep(portal, plan.Date))
			return p
		}

		ttOpts := []TimetableStepOption{
			WithTimetableDate(plan.Date),
			WithTimetableLogger(logger),
		}
		if plan.Now != nil {
			ttOpts = append(ttOpts, WithClock(plan.Now))
		}

		p.AddSteps(
			NewTimetableStep(portal, ttOpts...),
			NewGradesStep(portal, plan.GradeLimit),
			NewNotificationsStep(portal, plan.NotificationLimit, logger),
		)
		return p
	}
}

// Runner processes school subdomains one at a time.
type Runner struct {
	// connect logs in to a subdomain.
	connect Connector

	// pipelineFactory creates the pipeline for each session.
	// Each school gets a fresh pipeline bound to its own session.
	pipelineFactory func(Portal) *Pipeline

	logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets a custom logger for the runner.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner.
func NewRunner(connect Connector, pipelineFactory func(Portal) *Pipeline, opts ...RunnerOption) *Runner {
	r := &Runner{
		connect:         connect,
		pipelineFactory: pipelineFactory,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// Run processes every target in order and returns one report per
// processed target. Failures are recorded in the reports; the returned
// error is only set when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, targets []string) ([]*model.SchoolReport, error) {
	reports := make([]*model.SchoolReport, 0, len(targets))
	err := r.RunWithCallback(ctx, targets, func(report *model.SchoolReport, _ int) {
		reports = append(reports, report)
	})
	return reports, err
}

// RunWithCallback processes every target in order and calls callback as
// soon as each school's report is complete, so output can be streamed.
func (r *Runner) RunWithCallback(
	ctx context.Context,
	targets []string,
	callback func(report *model.SchoolReport, index int),
) error {
	r.logger.Info("starting report run", "total_targets", len(targets))
	startTime := time.Now()

	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}

		r.logger.Info("processing school",
			"subdomain", target,
			"index", i+1,
			"total", len(targets),
		)
		callback(r.RunTarget(ctx, target), i)
	}

	r.logger.Info("report run complete",
		"total_targets", len(targets),
		"elapsed", time.Since(startTime),
	)
	return nil
}

// RunTarget logs in to one subdomain and reports on every identity.
func (r *Runner) RunTarget(ctx context.Context, subdomain string) *model.SchoolReport {
	report := model.NewSchoolReport(subdomain)

	portal, err := r.connect(ctx, subdomain)
	if err != nil {
		r.logger.Warn("login failed", "subdomain", subdomain, "error", err)
		report.Err = &AuthenticationError{Target: subdomain, Err: err}
		return report
	}

	pipeline := r.pipelineFactory(portal)
	dependents := portal.Dependents()

	if len(dependents) == 0 {
		report.Direct = true
		identity := model.IdentityReport{Identity: model.SelfIdentity()}
		_ = pipeline.Execute(ctx, &identity) //nolint:errcheck // recorded in identity.Err
		report.Identities = append(report.Identities, identity)
		return report
	}

	for _, id := range dependents {
		if ctx.Err() != nil {
			break
		}

		identity := model.IdentityReport{Identity: ResolveIdentity(portal, id)}
		err := WithDependent(ctx, portal, id, r.logger, func(ctx context.Context) error {
			return pipeline.Execute(ctx, &identity)
		})
		if err != nil {
			r.logger.Warn("dependent failed", "subdomain", subdomain, "dependent", id, "error", err)
			identity.Err = err
		}
		report.Identities = append(report.Identities, identity)
	}

	return report
}
