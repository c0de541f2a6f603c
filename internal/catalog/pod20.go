package catalog

// init registers the POD 2.0 device descriptor: its amp/cab/effect model
// lists and its full name -> control map (CC numbers and range bounds).
func init() {
	amp := func(name string, opts ...func(*Amp)) Amp {
		a := Amp{Name: name}
		for _, o := range opts {
			o(&a)
		}
		return a
	}
	presence := func(a *Amp) { a.Presence = true }
	bright := func(a *Amp) { a.BrightSwitch = true }
	secondChan := func(a *Amp) { a.SecondChannel = true }

	effect := func(name string, hasDelay bool, onByDefault bool) Effect {
		return Effect{Name: name, HasDelay: hasDelay, DelayOnByDefault: onByDefault}
	}

	register(Descriptor{
		Name:            "POD 2.0",
		Family:          0x0000,
		Member:          0x0300,
		ProgramSize:     71,
		AllProgramsSize: 71 * 36,
		PodID:           0x01,

		AmpModels: []Amp{
			amp("Tube Preamp", presence),
			amp("POD Clean", presence, bright),
			amp("POD Crunch", presence, bright),
			amp("POD Drive", presence, bright),
			amp("POD Layer", presence, bright, secondChan),
			amp("Small Tweed"),
			amp("Tweed Blues", presence),
			amp("Black Panel"),
			amp("Modern Class A", presence),
			amp("Brit Class A"),
			amp("Brit Blues", presence, bright),
			amp("Brit Classic", presence),
			amp("Brit Hi Gain", presence),
			amp("Rectified", presence),
			amp("Modern Hi Gain"),
			amp("Fuzz Box", presence),
			amp("Jazz Clean", presence, bright),
			amp("Boutique #1", presence),
			amp("Boutique #2"),
			amp("Brit Class A #2"),
			amp("Brit Class A #3"),
			amp("Small Tweed #2"),
			amp("Black Panel #2", bright),
			amp("Boutique #3", presence),
			amp("California Crunch #1", presence, bright),
			amp("California Crunch #2", presence),
			amp("Rectified #2", presence),
			amp("Modern Hi Gain #2", presence),
		},

		CabModels: []string{
			"1x8  '60 Fender Tweed Champ",
			"1x12 '52 Fender Tweed Deluxe",
			"1x12 '60 Vox AC15",
			"1x12 '64 Fender Blackface Deluxe",
			"1x12 '98 Line 6 Flextone",
			"2x12 '65 Fender Blackface Twin",
			"2x12 '67 VOX AC30",
			"2x12 '95 Matchless Chieftain",
			"2x12 '98 Pod custom 2x12",
			"4x10 '59 Fender Bassman",
			"4x10 '98 Pod custom 4x10 cab",
			"4x12 '96 Marshall with V30s",
			"4x12 '78 Marshall with 70s",
			"4x12 '97 Marshall off axis",
			"4x12 '98 Pod custom 4x12",
			"No Cabinet",
		},

		EffectModels: []Effect{
			effect("Bypass", false, false),
			effect("Compressor", false, false),
			effect("Auto Swell", true, true),
			effect("Chorus 1", false, false),
			effect("Chorus 2", false, false),
			effect("Flanger 1", false, false),
			effect("Flanger 2", false, false),
			effect("Tremolo", false, false),
			effect("Rotary", true, false),
		},

		Controls: map[string]ControlDescriptor{
			// switches
			"distortion_enable":  {Kind: Switch, HasCC: true, CC: 25},
			"drive_enable":       {Kind: Switch, HasCC: true, CC: 26},
			"eq_enable":          {Kind: Switch, HasCC: true, CC: 27},
			"delay_enable":       {Kind: Switch, HasCC: true, CC: 28},
			"effect_enable":      {Kind: Switch, HasCC: true, CC: 50},
			"reverb_enable":      {Kind: Switch, HasCC: true, CC: 36},
			"noise_gate_enable":  {Kind: Switch, HasCC: true, CC: 22},
			"bright_switch_enable": {Kind: Switch, HasCC: true, CC: 73},

			// preamp
			"amp_select":   {Kind: Select, HasCC: true, CC: 12},
			"drive":        {Kind: Range, HasCC: true, CC: 13, From: 0, To: 63},
			"drive2":       {Kind: Range, HasCC: true, CC: 20, From: 0, To: 63},
			"bass":         {Kind: Range, HasCC: true, CC: 14, From: 0, To: 63},
			"mid":          {Kind: Range, HasCC: true, CC: 15, From: 0, To: 63},
			"treble":       {Kind: Range, HasCC: true, CC: 16, From: 0, To: 63},
			"presence":     {Kind: Range, HasCC: true, CC: 21, From: 0, To: 63},
			"chan_volume":  {Kind: Range, HasCC: true, CC: 17, From: 0, To: 63},

			// noise gate
			"gate_threshold": {Kind: Range, HasCC: true, CC: 23, From: 0, To: 96},
			"gate_decay":     {Kind: Range, HasCC: true, CC: 24, From: 0, To: 63},

			// wah / volume pedal
			"wah_bottom_freq":    {Kind: Range, HasCC: true, CC: 44, From: 0, To: 127},
			"wah_top_freq":       {Kind: Range, HasCC: true, CC: 45, From: 0, To: 127},
			"vol_level":          {Kind: Range, HasCC: true, CC: 7, From: 0, To: 127},
			"vol_pedal_position": {Kind: Switch, HasCC: true, CC: 47},

			// delay
			"delay_time":     {Kind: Range, HasCC: true, CC: 30, From: 0, To: 127},
			"delay_time_fine": {Kind: Range, HasCC: true, CC: 62, From: 0, To: 127},
			"delay_feedback": {Kind: Range, HasCC: true, CC: 32, From: 0, To: 63},
			"delay_level":    {Kind: Range, HasCC: true, CC: 34, From: 0, To: 63},

			// reverb
			"reverb_type":      {Kind: Switch, HasCC: true, CC: 37},
			"reverb_decay":     {Kind: Range, HasCC: true, CC: 38, From: 0, To: 63},
			"reverb_tone":      {Kind: Range, HasCC: true, CC: 39, From: 0, To: 63},
			"reverb_diffusion": {Kind: Range, HasCC: true, CC: 40, From: 0, To: 63},
			"reverb_density":   {Kind: Range, HasCC: true, CC: 41, From: 0, To: 63},
			"reverb_level":     {Kind: Range, HasCC: true, CC: 18, From: 0, To: 63},

			// cabinet sim
			"cab_select": {Kind: Select, HasCC: true, CC: 71},
			"air":        {Kind: Range, HasCC: true, CC: 72, From: 0, To: 63},

			// effect block
			"effect_select": {Kind: Range, HasCC: true, CC: 19, From: 0, To: 15},
			"effect_tweak":  {Kind: Range, HasCC: true, CC: 1, From: 0, To: 63},

			// effect parameters
			"volume_swell_time":       {Kind: Range, HasCC: true, CC: 49, From: 0, To: 63},
			"compression_ratio":       {Kind: Range, HasCC: true, CC: 42, From: 0, To: 6},
			"chorus_flanger_speed":    {Kind: Range, HasCC: true, CC: 51, From: 0, To: 127},
			"chorus_flanger_depth":    {Kind: Range, HasCC: true, CC: 52, From: 0, To: 127},
			"chorus_flanger_feedback": {Kind: Range, HasCC: true, CC: 53, From: 0, To: 127},
			"chorus_flanger_pre_delay": {Kind: Range, HasCC: true, CC: 54, From: 0, To: 127},
			"rotary_speed":      {Kind: Switch, HasCC: true, CC: 55},
			"rotary_fast_speed": {Kind: Range, HasCC: true, CC: 56, From: 0, To: 127},
			"rotary_slow_speed": {Kind: Range, HasCC: true, CC: 57, From: 0, To: 127},
			"trem_speed":        {Kind: Range, HasCC: true, CC: 58, From: 0, To: 127},
			"trem_depth":        {Kind: Range, HasCC: true, CC: 59, From: 0, To: 127},

			// wah_level has no CC of its own on the wire (it rides CC 4 as a
			// single 7-bit value); here it's a virtual 14-bit parameter
			// composed from two real CCs via the mediator's split-control
			// rule.
			"wah_level":     {Kind: Range, HasCC: false, From: 0, To: 16383},
			"wah_level_msb": {Kind: Range, HasCC: true, CC: 4, From: 0, To: 127},
			"wah_level_lsb": {Kind: Range, HasCC: true, CC: 43, From: 0, To: 127},

			// effect_select sub-fields: effect_select (above) is the packed
			// wire control; these two are virtual sub-fields with no CC of
			// their own, composed via the mediator's enumerated-compound
			// rule.
			"effect_select_wave":   {Kind: Range, HasCC: false, From: 0, To: 3},
			"effect_select_octave": {Kind: Range, HasCC: false, From: 0, To: 3},
		},
	})
}
