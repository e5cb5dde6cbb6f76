// Package metrics counts rule applications and script outcomes.
//
// Each Metrics owns a pedantic registry, so independent checkers (and tests)
// never share counters. All methods are nil-safe: code that records metrics
// can be handed a nil *Metrics when metrics are off.
package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Script outcomes for ScriptChecked.
const (
	ResultPass    = "pass"
	ResultFail    = "fail"
	ResultInvalid = "invalid"
)

// Metrics holds the counters.
type Metrics struct {
	registry *prometheus.Registry

	ruleApplications *prometheus.CounterVec
	ruleFailures     *prometheus.CounterVec
	scriptsChecked   *prometheus.CounterVec
}

// New creates a Metrics with its own registry.
func New() *Metrics {
	m := &Metrics{
		ruleApplications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ndk",
				Name:      "rule_applications_total",
				Help:      "number of successful kernel rule applications",
			},
			[]string{"rule"},
		),
		ruleFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ndk",
				Name:      "rule_failures_total",
				Help:      "number of kernel rule applications rejected, by error code",
			},
			[]string{"rule", "code"},
		),
		scriptsChecked: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ndk",
				Name:      "scripts_checked_total",
				Help:      "number of proof scripts checked, by result",
			},
			[]string{"result"},
		),
	}
	m.registry = prometheus.NewPedanticRegistry()
	m.registry.MustRegister(m.ruleApplications)
	m.registry.MustRegister(m.ruleFailures)
	m.registry.MustRegister(m.scriptsChecked)
	return m
}

// RuleApplied records a successful application of rule.
func (m *Metrics) RuleApplied(rule string) {
	if m == nil {
		return
	}
	m.ruleApplications.WithLabelValues(rule).Inc()
}

// RuleFailed records a rejected application of rule.
func (m *Metrics) RuleFailed(rule, code string) {
	if m == nil {
		return
	}
	m.ruleFailures.WithLabelValues(rule, code).Inc()
}

// ScriptChecked records a script outcome (ResultPass, ResultFail, ResultInvalid).
func (m *Metrics) ScriptChecked(result string) {
	if m == nil {
		return
	}
	m.scriptsChecked.WithLabelValues(result).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Sample is one counter value.
type Sample struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
	Value  float64           `json:"value"`
}

// Key renders the sample as name{k="v",...}.
func (s Sample) Key() string {
	if len(s.Labels) == 0 {
		return s.Name
	}
	keys := make([]string, 0, len(s.Labels))
	for k := range s.Labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%q", k, s.Labels[k])
	}
	return s.Name + "{" + strings.Join(parts, ",") + "}"
}

// Snapshot gathers every counter, sorted by Key.
func (m *Metrics) Snapshot() ([]Sample, error) {
	if m == nil {
		return nil, nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	var out []Sample
	for _, fam := range families {
		for _, metric := range fam.GetMetric() {
			s := Sample{
				Name:  fam.GetName(),
				Value: metric.GetCounter().GetValue(),
			}
			if pairs := metric.GetLabel(); len(pairs) > 0 {
				s.Labels = make(map[string]string, len(pairs))
				for _, lp := range pairs {
					s.Labels[lp.GetName()] = lp.GetValue()
				}
			}
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out, nil
}
