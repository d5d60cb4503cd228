// Package cluster groups submissions whose canonical forms are identical.
package cluster

import (
	"sort"

	"github.com/ludo-technologies/copyscn/domain"
)

// Source is the read side of a submission store
type Source interface {
	IDs() []string
	Canonical(id string) (string, bool)
}

// Cluster is a leader and the later ids that share its canonical form
type Cluster struct {
	Leader    string
	Members   []string
	Canonical string
}

// Size counts the leader and every member
func (c Cluster) Size() int {
	return 1 + len(c.Members)
}

// IDs returns the leader followed by the members
func (c Cluster) IDs() []string {
	return append([]string{c.Leader}, c.Members...)
}

// Result holds the emitted clusters in scan order and the known-set sorted
type Result struct {
	Clusters []Cluster
	Known    []string
}

// Config holds clustering options
type Config struct {
	// NoAnswer is the canonical form of an empty answer; such ids never lead.
	NoAnswer string
	// ReuseClaimedLeaders lets an id already claimed as a member lead a
	// later scan. Only unclaimed ids are ever added as members.
	ReuseClaimedLeaders bool
}

// DefaultConfig returns the reference behavior
func DefaultConfig() Config {
	return Config{
		NoAnswer:            domain.DefaultNoAnswer,
		ReuseClaimedLeaders: true,
	}
}

// Engine performs the sequential leader scan
type Engine struct {
	config Config
}

// NewEngine creates an engine
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// GetName returns the strategy name
func (e *Engine) GetName() string {
	if e.config.ReuseClaimedLeaders {
		return "Leader Scan"
	}
	return "Leader Scan (strict)"
}

// Config returns the engine configuration
func (e *Engine) Config() Config {
	return e.config
}

// Cluster scans ids in lexicographic order. Each candidate leader is compared
// with every later id; equal, unclaimed ids become its members. A cluster is
// emitted only when it has at least one member.
func (e *Engine) Cluster(src Source) Result {
	ids := append([]string(nil), src.IDs()...)
	sort.Strings(ids)

	canon := make([]string, len(ids))
	for i, id := range ids {
		canon[i], _ = src.Canonical(id)
	}

	known := make(map[string]struct{})
	var clusters []Cluster

	for i, leader := range ids {
		if canon[i] == e.config.NoAnswer {
			continue
		}
		if _, claimed := known[leader]; claimed && !e.config.ReuseClaimedLeaders {
			continue
		}
		var members []string
		for j := i + 1; j < len(ids); j++ {
			other := ids[j]
			if canon[j] != canon[i] {
				continue
			}
			if _, claimed := known[other]; claimed {
				continue
			}
			members = append(members, other)
			known[other] = struct{}{}
			known[leader] = struct{}{}
		}
		if len(members) > 0 {
			clusters = append(clusters, Cluster{
				Leader:    leader,
				Members:   members,
				Canonical: canon[i],
			})
		}
	}

	knownIDs := make([]string, 0, len(known))
	for id := range known {
		knownIDs = append(knownIDs, id)
	}
	sort.Strings(knownIDs)

	return Result{Clusters: clusters, Known: knownIDs}
}
