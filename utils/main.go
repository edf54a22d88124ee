package utils

import (
	"regexp"
	"strings"
)

// metricSeparatorRegexp matches the runs of whitespace and separator characters that get collapsed when a metric
// name is normalized.
var metricSeparatorRegexp = regexp.MustCompile(`[\s\-.]+`)

// NormalizeMetricName normalizes a metric name so that the same metric is always stored and looked up under the same
// key. Names are lowercased and runs of whitespace, hyphens and dots are collapsed to single underscores; this keeps
// "API Calls", "api-calls" and "api_calls" from being metered as three different metrics.
func NormalizeMetricName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	return metricSeparatorRegexp.ReplaceAllString(normalized, "_")
}
