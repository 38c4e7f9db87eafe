// Package container defines the shared shape of the four format engines:
// a chunk walker, a sensitivity classifier, and a byte-exact reconstructor
// driven by a Strip Policy.
package container

import (
	"bytes"
	"fmt"
	"strings"
)

// Policy governs which non-essential records survive reconstruction.
type Policy int

const (
	// PolicyAll strips every removable record.
	PolicyAll Policy = iota
	// PolicySafe strips only records classified as unsafe.
	PolicySafe
	// PolicyNone passes the input through unchanged.
	PolicyNone
)

func (p Policy) String() string {
	switch p {
	case PolicyAll:
		return "all"
	case PolicySafe:
		return "safe"
	case PolicyNone:
		return "none"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy parses "all", "safe" or "none", ignoring case.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "all":
		return PolicyAll, nil
	case "safe":
		return PolicySafe, nil
	case "none":
		return PolicyNone, nil
	}
	return PolicyAll, fmt.Errorf("unknown strip policy %q (want all, safe or none)", s)
}

// Class is the sensitivity classification of a single record.
type Class int

const (
	// ClassEssential records survive every policy.
	ClassEssential Class = iota
	// ClassSafe records survive PolicySafe but not PolicyAll.
	ClassSafe
	// ClassUnsafe records are removed by both PolicyAll and PolicySafe.
	ClassUnsafe
)

func (c Class) String() string {
	switch c {
	case ClassEssential:
		return "essential"
	case ClassSafe:
		return "safe"
	case ClassUnsafe:
		return "unsafe"
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// Record is one typed, length-prefixed unit within a container. During a
// walk the payload is a view into the input buffer; reconstruction copies
// retained payloads into a fresh output buffer.
type Record struct {
	ID      string
	Payload []byte
}

// Len returns the declared payload length.
func (r Record) Len() uint32 { return uint32(len(r.Payload)) }

// Engine is implemented once per container format. Engines hold no state
// between calls and are safe for concurrent use across files.
type Engine interface {
	// Format reports the container format the engine understands.
	Format() Format

	// Walk linearly scans input and returns its records in container order.
	// Payloads alias the input buffer.
	Walk(input []byte) ([]Record, error)

	// Classify tags a record identifier by sensitivity.
	Classify(id string) Class

	// Reconstruct emits a new container holding only keep, patching any
	// container-level size fields to the reduced byte count. keep preserves
	// the relative order produced by Walk.
	Reconstruct(input []byte, keep []Record, policy Policy) ([]byte, error)
}

// Strip walks input, retains the records the policy permits, and rebuilds
// the container. PolicyNone returns the input bytes unchanged.
func Strip(e Engine, input []byte, policy Policy) ([]byte, error) {
	if policy == PolicyNone {
		return bytes.Clone(input), nil
	}

	records, err := e.Walk(input)
	if err != nil {
		return nil, err
	}

	keep := records[:0:0]
	for _, r := range records {
		if Retained(e.Classify(r.ID), policy) {
			keep = append(keep, r)
		}
	}
	return e.Reconstruct(input, keep, policy)
}

// Retained reports whether a record of the given class survives the policy.
func Retained(c Class, policy Policy) bool {
	switch policy {
	case PolicyNone:
		return true
	case PolicySafe:
		return c != ClassUnsafe
	default:
		return c == ClassEssential
	}
}
