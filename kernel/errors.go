package kernel

import "errors"

// ErrDependencyViolation is raised (via panic, see startTool) when
// something attempts to start a tool whose predecessors are not all
// Completed. This is a programmer-error class, not a recoverable
// runtime condition.
var ErrDependencyViolation = errors.New("kernel: dependency violation")
