// Package config loads the YAML resource-capacity and mixed-workload
// configuration a simulation run is driven by.
package config

import (
	"fmt"
	"os"

	"github.com/agentic-fairsim/agentic-fairsim/resource"
	"gopkg.in/yaml.v3"
)

// Resources is the on-disk shape of a resource-capacity config: one
// optional positive capacity per kind. Kinds omitted here fall back
// to resource.Unlimited once passed to resource.NewTable.
type Resources struct {
	CPU     float64 `yaml:"cpu"`
	NPU     float64 `yaml:"npu"`
	Memory  float64 `yaml:"memory"`
	Network float64 `yaml:"network"`
	Disk    float64 `yaml:"disk"`
}

// WorkloadEntry is the on-disk shape of one request type in a mixed
// workload config: a DAG node list and an arrival rate. BuildDAG turns
// Nodes into a dag.Template through dag's own NewTemplate/AddNode,
// since dag.Template holds unexported adjacency state config has no
// business building directly.
type WorkloadEntry struct {
	RequestType    string      `yaml:"request_type"`
	ArrivalRateRPM float64     `yaml:"arrival_rate_rpm"`
	Nodes          []NodeEntry `yaml:"nodes"`
}

// NodeEntry is one DAG node's on-disk shape: its name, the resource
// kinds it loads, and the direct predecessor names it depends on.
type NodeEntry struct {
	Name         string             `yaml:"name"`
	Loads        map[string]float64 `yaml:"loads"`
	Predecessors []string           `yaml:"predecessors"`
}

// File is the full on-disk config document: capacities plus a mixed
// workload.
type File struct {
	Resources Resources       `yaml:"resources"`
	Workloads []WorkloadEntry `yaml:"workloads"`
}

// Load reads and parses the YAML config at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &f, nil
}

// ResourceTable builds a resource.Table from the parsed Resources
// block. Zero-valued fields are omitted so resource.NewTable applies
// its Unlimited default rather than rejecting a zero capacity.
func (f *File) ResourceTable() (*resource.Table, error) {
	caps := make(map[resource.Kind]float64, resource.NumKinds)
	add := func(k resource.Kind, v float64) {
		if v > 0 {
			caps[k] = v
		}
	}
	add(resource.CPU, f.Resources.CPU)
	add(resource.NPU, f.Resources.NPU)
	add(resource.Memory, f.Resources.Memory)
	add(resource.Network, f.Resources.Network)
	add(resource.Disk, f.Resources.Disk)
	return resource.NewTable(caps)
}
