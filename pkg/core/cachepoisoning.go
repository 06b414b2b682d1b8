package core

import (
	"strings"

	"github.com/forgesec/forgelint/pkg/ast"
	"github.com/forgesec/forgelint/pkg/expressions"
)

// CacheUsage is the verdict on whether a step actually restores a cache.
type CacheUsage int

const (
	// CacheUsageAlways means the action restores a cache unconditionally.
	CacheUsageAlways CacheUsage = iota
	// CacheUsageDefault means caching is on because the control input is
	// absent and the action caches by default.
	CacheUsageDefault
	// CacheUsageDirectOptIn means the control input explicitly enables
	// caching.
	CacheUsageDirectOptIn
	// CacheUsageConditionalOptIn means activation depends on an expression
	// that cannot be resolved statically.
	CacheUsageConditionalOptIn
)

// publishingScenario is the trust boundary that makes cache restoration
// dangerous for a job. Exactly one of the fields is set: event for a
// publishing trigger, publisher for a step invoking a known publisher
// action.
type publishingScenario struct {
	event     ast.Event
	publisher *ast.Step
}

// CachePoisoningRule flags jobs that publish artifacts while restoring a
// cache an attacker could have poisoned from a less trusted run. A job is
// considered publishing when its workflow runs on a release or tag-push
// trigger, or when one of its steps invokes a well-known publisher action;
// each step that actually restores a cache in such a job yields one finding.
//
// The rule reasons only from static declarations and never executes the
// workflow, so every finding carries low confidence and high severity.
type CachePoisoningRule struct {
	BaseRule
	on       []ast.Event
	scenario *publishingScenario
}

// NewCachePoisoningRule creates the cache poisoning detection rule.
func NewCachePoisoningRule() *CachePoisoningRule {
	return &CachePoisoningRule{
		BaseRule: BaseRule{
			RuleName: "cache-poisoning",
			RuleDesc: "Detects runtime artifacts potentially vulnerable to a cache poisoning attack: jobs that publish artifacts while restoring a cache writable from less trusted runs",
		},
	}
}

func (rule *CachePoisoningRule) VisitWorkflowPre(node *ast.Workflow) error {
	rule.on = node.On
	return nil
}

func (rule *CachePoisoningRule) VisitJobPre(node *ast.Job) error {
	rule.scenario = detectPublishingScenario(rule.on, node.Steps)
	return nil
}

func (rule *CachePoisoningRule) VisitJobPost(node *ast.Job) error {
	rule.scenario = nil
	return nil
}

func (rule *CachePoisoningRule) VisitStep(node *ast.Step) error {
	if rule.scenario == nil {
		return nil
	}

	action, ok := node.Exec.(*ast.ExecAction)
	if !ok {
		return nil
	}

	usage, active := evaluateCacheUsage(action.Uses.Value, action.Inputs)
	if !active {
		return nil
	}

	rule.Report(cachePoisoningFinding(rule.scenario, node, usage))
	return nil
}

// detectPublishingScenario decides whether a job executes in a publishing
// context. The trigger signal wins over the publisher-step signal, but both
// are independently sufficient: a publisher step matches even under triggers
// unrelated to publishing.
func detectPublishingScenario(on []ast.Event, steps []*ast.Step) *publishingScenario {
	for _, event := range on {
		hook, ok := event.(*ast.WebhookEvent)
		if !ok {
			continue
		}
		name := strings.ToLower(hook.Hook.Value)
		// The release signal only counts for the bare and list trigger
		// shapes; a release key under the "on" mapping does not match.
		if name == "release" && !hook.Mapped {
			return &publishingScenario{event: event}
		}
		// Tag pushes conventionally gate releases; tags-ignore does not
		// restrict the event to tag refs, so only "tags" counts.
		if name == "push" && len(hook.Tags) > 0 {
			return &publishingScenario{event: event}
		}
	}

	for _, step := range steps {
		action, ok := step.Exec.(*ast.ExecAction)
		if !ok {
			continue
		}
		target, ok := ParseActionRef(action.Uses.Value)
		if !ok {
			continue
		}
		if isKnownPublisherAction(target) {
			return &publishingScenario{publisher: step}
		}
	}

	return nil
}

// evaluateCacheUsage decides whether the invoked action restores a cache
// given the step's declared inputs. The second result is false when no
// cache is restored or the action is not a known cache-aware action.
func evaluateCacheUsage(uses string, inputs map[string]*ast.Input) (CacheUsage, bool) {
	target, ok := ParseActionRef(uses)
	if !ok {
		return 0, false
	}

	switch known := lookupCacheAwareAction(target).(type) {
	case *FixedCacheAction:
		return CacheUsageAlways, true
	case *ConfigurableCacheAction:
		return controllableCacheUsage(known, inputs)
	default:
		return 0, false
	}
}

// controlSignal classifies the value declared for a caching control input.
type controlSignal int

const (
	// signalNone: caching stays off, or the user explicitly disabled it.
	signalNone controlSignal = iota
	// signalDirect: the value explicitly enables caching.
	signalDirect
	// signalConditional: activation depends on an unresolved expression.
	signalConditional
	// signalDefault: the value declines the control, so the action's
	// default behavior applies.
	signalDefault
)

func controllableCacheUsage(action *ConfigurableCacheAction, inputs map[string]*ast.Input) (CacheUsage, bool) {
	input := inputs[action.ControlInput]
	if input == nil || input.Value == nil {
		// The control input is not used; the action's default decides.
		if action.CachingByDefault {
			return CacheUsageDefault, true
		}
		return 0, false
	}

	switch classifyControlValue(action, input.Value.Value) {
	case signalDirect:
		return CacheUsageDirectOptIn, true
	case signalConditional:
		// The value is only known at run time. Reporting with lower
		// certainty beats both suppressing and over-reporting.
		return CacheUsageConditionalOptIn, true
	case signalDefault:
		if action.CachingByDefault {
			return CacheUsageDefault, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func classifyControlValue(action *ConfigurableCacheAction, value string) controlSignal {
	switch {
	case value == "true":
		if action.OptIn {
			return signalDirect
		}
		// The user asked the opt-out input to disable caching.
		return signalNone
	case value == "false":
		if action.OptIn {
			// Explicit decline of the opt-in.
			return signalNone
		}
		// Declining an opt-out leaves the action's default in charge.
		return signalDefault
	case expressions.IsExpression(value):
		// Conditional regardless of polarity: the expression cannot be
		// resolved statically in either direction.
		return signalConditional
	case action.ControlValue == CacheControlString:
		// A non-empty configuration string, e.g. cache: "npm".
		if action.OptIn {
			return signalDirect
		}
		return signalNone
	default:
		// Not classifiable as a boolean and not an expression.
		return signalNone
	}
}

// cachePoisoningFinding builds the finding for one cache-restoring step,
// anchoring both the trust boundary and the cache activation site.
func cachePoisoningFinding(scenario *publishingScenario, step *ast.Step, usage CacheUsage) *Finding {
	var key, annotation string
	switch usage {
	case CacheUsageAlways:
		key, annotation = "uses", "caching is always restored here"
	case CacheUsageDefault:
		key, annotation = "uses", "caching is enabled by default here"
	case CacheUsageDirectOptIn:
		key, annotation = "with", "caching is explicitly opted into here"
	case CacheUsageConditionalOptIn:
		key, annotation = "with", "caching may be opted into here, depending on an unresolved expression"
	}

	var trust *Location
	if scenario.publisher != nil {
		trust = &Location{
			Pos:        scenario.publisher.Pos,
			Key:        "uses",
			Annotation: "this step typically publishes runtime-built artifacts",
		}
	} else {
		trust = &Location{
			Pos:        scenario.event.EventPos(),
			Key:        "on",
			Annotation: "generally indicates artifact publishing",
		}
	}

	return &Finding{
		Description: "runtime artifacts potentially vulnerable to a cache poisoning attack",
		Severity:    SeverityHigh,
		Confidence:  ConfidenceLow,
		Locations: []*Location{
			trust,
			{Pos: step.Pos, Key: key, Annotation: annotation, Primary: true},
		},
	}
}
