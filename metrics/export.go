package metrics

import (
	"encoding/json"
	"io"

	"github.com/agentic-fairsim/agentic-fairsim/resource"
)

// Summary is the nested metrics summary object: {latency: {overall,
// per-type}, throughput: {overall, per-type}, utilisation: {cpu, npu,
// memory, network, disk}}.
type Summary struct {
	Latency     LatencySummary     `json:"latency"`
	Throughput  ThroughputSummary  `json:"throughput"`
	Utilisation UtilisationSummary `json:"utilisation"`
}

// LatencySummary holds overall and per-type latency Stats.
type LatencySummary struct {
	Overall Stats            `json:"overall"`
	PerType map[string]Stats `json:"per_type"`
}

// ThroughputSummary holds overall and per-type Throughput.
type ThroughputSummary struct {
	Overall Throughput            `json:"overall"`
	PerType map[string]Throughput `json:"per_type"`
}

// UtilisationSummary is the time-weighted average utilisation per
// resource kind, each a fraction in [0, 1].
type UtilisationSummary struct {
	CPU     float64 `json:"cpu"`
	NPU     float64 `json:"npu"`
	Memory  float64 `json:"memory"`
	Network float64 `json:"network"`
	Disk    float64 `json:"disk"`
}

// Summarize builds the nested Summary object from every stream
// recorded so far. Calling it after a cancelled run is safe: an empty
// collector (zero arrivals, zero completions) yields zero-valued
// statistics rather than an error.
func (c *Collector) Summarize() Summary {
	perTypeLatency := make(map[string]Stats)
	perTypeThroughput := make(map[string]Throughput)
	for _, rt := range c.RequestTypes() {
		perTypeLatency[rt] = c.LatencyStats(rt)
		perTypeThroughput[rt] = c.Throughput(rt)
	}

	util := c.Utilisation()

	return Summary{
		Latency: LatencySummary{
			Overall: c.LatencyStats(""),
			PerType: perTypeLatency,
		},
		Throughput: ThroughputSummary{
			Overall: c.Throughput(""),
			PerType: perTypeThroughput,
		},
		Utilisation: UtilisationSummary{
			CPU:     util[resource.CPU],
			NPU:     util[resource.NPU],
			Memory:  util[resource.Memory],
			Network: util[resource.Network],
			Disk:    util[resource.Disk],
		},
	}
}

// WriteJSON writes v as indented JSON to w, for downstream
// visualisation tooling. The kernel owns no wire format itself; this
// is a convenience for callers that want one.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
