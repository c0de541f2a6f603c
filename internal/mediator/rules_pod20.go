package mediator

import "github.com/gopher-pod/podctl/internal/store"

// Pod20Rules returns the virtual-control rules for the two derived
// controls the POD 2.0 catalog entry adds (see internal/catalog/pod20.go):
// a 14-bit split control, wah_level, and an enumerated-compound control,
// effect_select's wave/octave sub-fields.
func Pod20Rules() []Rule {
	rules := SplitControl("wah_level", "wah_level_msb", "wah_level_lsb")
	rules = append(rules, EnumCompound(
		"effect_select",
		[]string{"effect_select_wave", "effect_select_octave"},
		packEffectSelect,
		unpackEffectSelect,
	)...)
	return rules
}

func packEffectSelect(s *store.Store) uint16 {
	wave, _ := s.Get("effect_select_wave")
	octave, _ := s.Get("effect_select_octave")
	return (octave&0x3)<<2 | (wave & 0x3)
}

func unpackEffectSelect(packed uint16) map[string]uint16 {
	return map[string]uint16{
		"effect_select_wave":   packed & 0x3,
		"effect_select_octave": (packed >> 2) & 0x3,
	}
}
