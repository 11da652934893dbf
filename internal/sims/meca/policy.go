package meca

import (
	"fmt"
	"strconv"
	"strings"
)

// PolicyKind identifies an update-scheduling discipline.
type PolicyKind uint8

const (
	// Synchronous updates every cell from the frozen predecessor.
	Synchronous PolicyKind = iota + 1
	// RandomIndependent updates N uniformly drawn cells, with replacement, in place.
	RandomIndependent
	// RandomOrder updates every cell once per step in a fresh random order.
	RandomOrder
	// CyclicFixedOrder updates every cell once per step in an order drawn at construction.
	CyclicFixedOrder
	// ClockedRandom gives each cell one of N phases; a step runs N micro-steps.
	ClockedRandom
)

var policyNames = map[PolicyKind]string{
	Synchronous:       "synchronous",
	RandomIndependent: "randomIndependent",
	RandomOrder:       "randomOrder",
	CyclicFixedOrder:  "cyclicFixedOrder",
	ClockedRandom:     "clockedRandom",
}

// legacyNames are the historical update-pattern names, still used in output
// file names.
var legacyNames = []struct {
	name   string
	policy Policy
}{
	{"rasRandomIndependent", Policy{Kind: RandomIndependent, N: 1}},
	{"rasRandomIndependent10", Policy{Kind: RandomIndependent, N: 10}},
	{"rasRandomIndependent60", Policy{Kind: RandomIndependent, N: 60}},
	{"rasRandomIndependent100", Policy{Kind: RandomIndependent, N: 100}},
	{"rasRandomIndependent500", Policy{Kind: RandomIndependent, N: 500}},
	{"rasRandomOrder", Policy{Kind: RandomOrder}},
	{"oasCyclic", Policy{Kind: CyclicFixedOrder}},
	{"oasEqClocked10", Policy{Kind: ClockedRandom, N: 10}},
	{"oasEqClocked60", Policy{Kind: ClockedRandom, N: 60}},
	{"oasEqClocked100", Policy{Kind: ClockedRandom, N: 100}},
	{"oasEqClocked500", Policy{Kind: ClockedRandom, N: 500}},
}

// legacyPolicies maps the lower-cased historical names onto policies.
var legacyPolicies = func() map[string]Policy {
	m := make(map[string]Policy, len(legacyNames))
	for _, l := range legacyNames {
		m[strings.ToLower(l.name)] = l.policy
	}
	return m
}()

// Policy is an update-scheduling discipline plus its parameter: the number of
// picks for RandomIndependent or the number of phases for ClockedRandom.
type Policy struct {
	Kind PolicyKind
	N    int
}

// SynchronousPolicy is the default policy.
var SynchronousPolicy = Policy{Kind: Synchronous}

// ParsePolicy accepts "synchronous", "randomIndependent(n)", "randomOrder",
// "cyclicFixedOrder", "clockedRandom(k)" and the historical names such as
// "rasRandomIndependent10" or "oasEqClocked60". Matching is case-insensitive.
func ParsePolicy(s string) (Policy, error) {
	raw := strings.TrimSpace(s)
	name := strings.ToLower(raw)
	if p, ok := legacyPolicies[name]; ok {
		return p, nil
	}
	arg := ""
	if open := strings.IndexByte(name, '('); open >= 0 {
		if !strings.HasSuffix(name, ")") {
			return Policy{}, configErr("update policy", raw, "unbalanced parentheses")
		}
		arg = name[open+1 : len(name)-1]
		name = name[:open]
	}
	var kind PolicyKind
	for k, n := range policyNames {
		if strings.ToLower(n) == name {
			kind = k
		}
	}
	if kind == 0 {
		return Policy{}, configErr("update policy", raw, "valid values are "+strings.Join(PolicyNames(), ", "))
	}
	p := Policy{Kind: kind}
	if kind.parameterized() {
		if arg == "" {
			return Policy{}, configErr("update policy", raw, "missing count, e.g. "+policyNames[kind]+"(10)")
		}
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return Policy{}, configErr("update policy", raw, "count is not an integer")
		}
		p.N = n
	} else if arg != "" {
		return Policy{}, configErr("update policy", raw, "takes no count")
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// PolicyNames lists the accepted policy spellings, historical names last.
func PolicyNames() []string {
	names := []string{"synchronous", "randomIndependent(n)", "randomOrder", "cyclicFixedOrder", "clockedRandom(k)"}
	for _, l := range legacyNames {
		names = append(names, l.name)
	}
	return names
}

// MaxPolicyCount bounds the picks of randomIndependent and the phases of
// clockedRandom.
const MaxPolicyCount = 1 << 20

func (k PolicyKind) parameterized() bool {
	return k == RandomIndependent || k == ClockedRandom
}

// Validate checks the kind and its count.
func (p Policy) Validate() error {
	if _, ok := policyNames[p.Kind]; !ok {
		return configErr("update policy", p.Kind, "unrecognized kind")
	}
	if p.Kind.parameterized() && p.N < 1 {
		return configErr("update policy", p.String(), "count must be >= 1")
	}
	if p.Kind.parameterized() && p.N > MaxPolicyCount {
		return configErr("update policy", p.String(), fmt.Sprintf("count must be <= %d", MaxPolicyCount))
	}
	if !p.Kind.parameterized() && p.N != 0 {
		return configErr("update policy", p.String(), "takes no count")
	}
	return nil
}

func (p Policy) String() string {
	name, ok := policyNames[p.Kind]
	if !ok {
		return fmt.Sprintf("policy(%d)", uint8(p.Kind))
	}
	if p.Kind.parameterized() {
		return fmt.Sprintf("%s(%d)", name, p.N)
	}
	return name
}

// Slug renders the policy for file names: the historical name when one
// exists, otherwise the name and count without punctuation.
func (p Policy) Slug() string {
	for _, l := range legacyNames {
		if l.policy == p {
			return l.name
		}
	}
	if p.Kind.parameterized() {
		return fmt.Sprintf("%s%d", policyNames[p.Kind], p.N)
	}
	return policyNames[p.Kind]
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
