package strip

import "strings"

// Nodes lists node signatures, such as "pmu@0". Order matters only for
// which node gets reported when several match the same line.
type Nodes []string

// DefaultNodes are the PMU-related nodes removed when nothing else
// is configured.
var DefaultNodes = Nodes{
	"pmu@0",
	"rp_memory_slave_pmu@0",
	"rp_gpio_pmu_intr@0",
	"rp_gpio_pmu@0",
	"lmb_pmu@0",
}

// ParseNodes splits a comma-separated list of node signatures.
// Surrounding spaces and empty entries are dropped.
func ParseNodes(s string) Nodes {
	var nodes Nodes
	for n := range strings.SplitSeq(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Clone returns a copy of nodes that shares no memory with it.
func (nodes Nodes) Clone() Nodes {
	if nodes == nil {
		return nil
	}
	return append(Nodes(nil), nodes...)
}
