package mediator

import (
	"sort"

	"github.com/gopher-pod/podctl/internal/catalog"
)

// ccField is one CC-bearing control's position within a program dump.
type ccField struct {
	name string
	cc   uint8
}

// dumpLayout orders every CC-bearing control by ascending CC number and
// assigns it a byte offset into a program_size buffer.
func dumpLayout(d catalog.Descriptor) []ccField {
	fields := make([]ccField, 0, len(d.Controls))
	for name, cd := range d.Controls {
		if cd.HasCC {
			fields = append(fields, ccField{name: name, cc: cd.CC})
		}
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].cc < fields[j].cc })
	return fields
}
