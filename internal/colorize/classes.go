package colorize

import "strconv"

// ClassLabels names the S3DIS indoor classes used by the segmentation models
// whose outputs this tool inspects.
var ClassLabels = map[float32]string{
	0:  "Ceiling",
	1:  "Floor",
	2:  "Wall",
	3:  "Beam",
	4:  "Column",
	5:  "Window",
	6:  "Door",
	7:  "Table",
	8:  "Chair",
	9:  "Sofa",
	10: "Bookcase",
	11: "Board",
	12: "Clutter",
}

// ClassLabel returns the display name of a class id, or the id itself.
func ClassLabel(id float32) string {
	if s, ok := ClassLabels[id]; ok {
		return s
	}
	return strconv.FormatFloat(float64(id), 'g', -1, 32)
}

// ClassColorMap assigns palette colors by rank over the union of class ids
// found in all columns, so that e.g. predicted and ground-truth labels share
// one legend.
func ClassColorMap(palette Categorical, columns ...[]float32) (Explicit, []ClassColor) {
	var all []float32
	for _, c := range columns {
		all = append(all, c...)
	}
	ids := distinct(all)
	m := Explicit{Colors: make(map[float32]RGB, len(ids))}
	legend := make([]ClassColor, 0, len(ids))
	if len(palette.Palette) == 0 {
		return m, legend
	}
	for i, id := range ids {
		c := palette.Palette[i%len(palette.Palette)]
		m.Colors[id] = c
		legend = append(legend, ClassColor{ID: id, Color: c})
	}
	return m, legend
}
