package mediator

import "github.com/gopher-pod/podctl/internal/store"

// Rule is one entry of the virtual-controls rules engine: whenever
// Trigger changes, optionally filtered to a specific origin, Action runs
// against the store. Actions are themselves origin-tagged writers, so
// the origin filter on the next rule in the chain is what keeps these
// loops from oscillating.
type Rule struct {
	Trigger    string
	FromOrigin *store.Origin
	Action     func(s *store.Store, value uint16, origin store.Origin)
}

func originPtr(o store.Origin) *store.Origin { return &o }

// matches reports whether ev should fire this rule.
func (r Rule) matches(ev store.Event) bool {
	if r.Trigger != ev.Name {
		return false
	}
	return r.FromOrigin == nil || *r.FromOrigin == ev.Origin
}

// SplitControl wires a logical 14-bit control key to two real 7-bit
// controls msbName/lsbName. A write to key from any origin force-writes
// both halves with that same origin; a
// MIDI write to either half recombines with the other half's current
// value and writes key with origin MIDI. The origin filter on the
// recombination rules is what stops a GUI-originated split from being
// read back as a MIDI write.
func SplitControl(key, msbName, lsbName string) []Rule {
	return []Rule{
		{
			Trigger: key,
			Action: func(s *store.Store, value uint16, origin store.Origin) {
				s.SetFull(msbName, (value>>7)&0x7f, origin, store.Force)
				s.SetFull(lsbName, value&0x7f, origin, store.Force)
			},
		},
		{
			Trigger:    msbName,
			FromOrigin: originPtr(store.MIDI),
			Action: func(s *store.Store, value uint16, _ store.Origin) {
				lsb, _ := s.Get(lsbName)
				s.Set(key, (value<<7)|lsb, store.MIDI)
			},
		},
		{
			Trigger:    lsbName,
			FromOrigin: originPtr(store.MIDI),
			Action: func(s *store.Store, value uint16, _ store.Origin) {
				msb, _ := s.Get(msbName)
				s.Set(key, (msb<<7)|value, store.MIDI)
			},
		},
	}
}

// EnumCompound wires a byte-packed parameter key to a set of sub-fields.
// GUI writes to any sub-field recompute the packed value via pack and
// write key with origin GUI;
// a MIDI write to key splits the packed value via unpack and
// force-writes every sub-field with origin MIDI.
func EnumCompound(key string, subfields []string, pack func(s *store.Store) uint16, unpack func(packed uint16) map[string]uint16) []Rule {
	rules := make([]Rule, 0, len(subfields)+1)
	for _, sub := range subfields {
		rules = append(rules, Rule{
			Trigger:    sub,
			FromOrigin: originPtr(store.GUI),
			Action: func(s *store.Store, _ uint16, _ store.Origin) {
				s.Set(key, pack(s), store.GUI)
			},
		})
	}
	rules = append(rules, Rule{
		Trigger:    key,
		FromOrigin: originPtr(store.MIDI),
		Action: func(s *store.Store, value uint16, _ store.Origin) {
			for name, v := range unpack(value) {
				s.SetFull(name, v, store.MIDI, store.Force)
			}
		},
	})
	return rules
}
