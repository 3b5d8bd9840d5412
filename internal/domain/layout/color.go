package layout

import (
	"hash/fnv"

	"github.com/intavia/visualquery/internal/domain/constraint"
)

var palette = []string{
	"#4e79a7",
	"#f28e2b",
	"#e15759",
	"#76b7b2",
	"#59a14f",
	"#edc948",
	"#b07aa1",
	"#ff9da7",
}

var colors = map[constraint.ID]string{
	constraint.IDPersonName:  palette[0],
	constraint.IDDateOfBirth: palette[1],
	constraint.IDDateOfDeath: palette[2],
	constraint.IDPlace:       palette[3],
	constraint.IDOccupation:  palette[4],
	constraint.IDEntityKind:  palette[5],
}

// Color returns the fill colour of a constraint. It depends only on the ID.
func Color(id constraint.ID) string {
	if c, ok := colors[id]; ok {
		return c
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return palette[h.Sum32()%uint32(len(palette))]
}
