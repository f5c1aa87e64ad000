// Package numa discovers NUMA topology, pins workers to nodes, and
// partitions the Gray-code mask range across them (spec component [NUMA]).
// True node-local memory placement would require libnuma's mbind(2), which
// is unreachable from pure Go without cgo; Topology instead reports the
// node/CPU layout and Pin confines a goroutine's OS thread to a node's CPU
// set, which is the portion of NUMA locality this module can deliver
// without leaving the dependency set the rest of the repo draws from.
package numa

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Node describes one NUMA node: its ID and the logical CPU IDs bound to it.
type Node struct {
	ID  int
	CPU []int
}

// Topology is the discovered node/CPU layout of the host.
type Topology struct {
	Nodes []Node
}

const sysNodePath = "/sys/devices/system/node"

// Discover reads /sys/devices/system/node to enumerate NUMA nodes and the
// CPUs attached to each. On a machine with no such hierarchy (a single-node
// VM, a non-Linux kernel, or a test sandbox) it falls back to a single
// synthetic node covering every CPU reported by the runtime, which keeps
// NumaExecutor usable in development and CI.
func Discover() (*Topology, error) {
	entries, err := os.ReadDir(sysNodePath)
	if err != nil {
		return fallbackTopology(), nil
	}

	var nodes []Node
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "node") {
			continue
		}
		id, err := strconv.Atoi(strings.TrimPrefix(name, "node"))
		if err != nil {
			continue
		}
		cpus, err := readCPUList(filepath.Join(sysNodePath, name, "cpulist"))
		if err != nil {
			continue
		}
		nodes = append(nodes, Node{ID: id, CPU: cpus})
	}
	if len(nodes) == 0 {
		return fallbackTopology(), nil
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return &Topology{Nodes: nodes}, nil
}

func fallbackTopology() *Topology {
	n := numCPU()
	cpus := make([]int, n)
	for i := range cpus {
		cpus[i] = i
	}
	return &Topology{Nodes: []Node{{ID: 0, CPU: cpus}}}
}

// readCPUList parses a Linux CPU list file, e.g. "0-3,8-11".
func readCPUList(path string) ([]int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cpus []int
	for _, part := range strings.Split(strings.TrimSpace(string(b)), ",") {
		if part == "" {
			continue
		}
		if dash := strings.IndexByte(part, '-'); dash >= 0 {
			lo, err := strconv.Atoi(part[:dash])
			if err != nil {
				return nil, err
			}
			hi, err := strconv.Atoi(part[dash+1:])
			if err != nil {
				return nil, err
			}
			for c := lo; c <= hi; c++ {
				cpus = append(cpus, c)
			}
		} else {
			c, err := strconv.Atoi(part)
			if err != nil {
				return nil, err
			}
			cpus = append(cpus, c)
		}
	}
	return cpus, nil
}

// NodeCount returns the number of discovered NUMA nodes.
func (t *Topology) NodeCount() int { return len(t.Nodes) }

// TotalCPU returns the total number of CPUs across all nodes.
func (t *Topology) TotalCPU() int {
	n := 0
	for _, node := range t.Nodes {
		n += len(node.CPU)
	}
	return n
}

func (t *Topology) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d node(s), %d cpu(s):", len(t.Nodes), t.TotalCPU())
	for _, n := range t.Nodes {
		fmt.Fprintf(&sb, " node%d=%v", n.ID, n.CPU)
	}
	return sb.String()
}
