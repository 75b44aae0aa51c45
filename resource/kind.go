// Package resource defines the closed set of typed resources the
// fair-share allocator contends over, and the immutable capacity
// table each simulation run is configured with.
package resource

// Kind is one of the five resource kinds the simulator recognises.
// Extending this set is a deliberate core change, not a config option.
type Kind int

const (
	CPU Kind = iota
	NPU
	Memory
	Network
	Disk

	// NumKinds is the size of the closed resource-kind enumeration.
	// Hot per-tool vectors (remaining work, current share) are fixed-size
	// arrays of this length rather than maps.
	NumKinds
)

var kindNames = [NumKinds]string{
	CPU:     "cpu",
	NPU:     "npu",
	Memory:  "memory",
	Network: "network",
	Disk:    "disk",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= int(NumKinds) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind maps a config key to a Kind. ok is false for unrecognised keys.
func ParseKind(s string) (k Kind, ok bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return 0, false
}
