package observability

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// LogSummary logs the non-zero address_etl counters gathered from g as a
// single "run summary" line. Batch commands call it on exit since they expose
// no /metrics endpoint. Labelled series are keyed name.label1.label2.
func LogSummary(logger *slog.Logger, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	prefix := namespace + "_"
	var keys []string
	values := map[string]float64{}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), prefix) {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(mf.GetName(), prefix), "_total")
		for _, m := range mf.GetMetric() {
			c := m.GetCounter()
			if c == nil || c.GetValue() == 0 {
				continue
			}
			key := name
			for _, lp := range m.GetLabel() {
				key += "." + lp.GetValue()
			}
			keys = append(keys, key)
			values[key] = c.GetValue()
		}
	}
	sort.Strings(keys)

	attrs := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		attrs = append(attrs, k, values[k])
	}
	logger.Info("run summary", attrs...)
	return nil
}
