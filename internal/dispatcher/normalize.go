package dispatcher

// Result is the outcome of normalizing a dispatcher file.
type Result struct {
	// Output is the canonical text. It equals the input when the input has
	// no records.
	Output string
	// Changed is true when Output differs from the input.
	Changed bool
	// Changes holds per-record tracking.
	Changes Changes
	// Records is the number of records parsed.
	Records int
}

// Normalizer renders dispatcher text in one canonical [Style].
type Normalizer struct {
	style    Style
	defaults Defaults
}

// NewNormalizer returns a Normalizer for style with the given field defaults.
func NewNormalizer(style Style, d Defaults) *Normalizer {
	return &Normalizer{style: style, defaults: d}
}

// Style returns the rendering style.
func (n *Normalizer) Style() Style {
	return n.style
}

// Normalize parses text and renders it canonically, records in their
// original order. Normalizing canonical output returns it unchanged.
func (n *Normalizer) Normalize(text string) Result {
	doc := Parse(text)
	if len(doc.Records) == 0 {
		return Result{Output: text}
	}

	out := Render(doc, n.defaults, n.style)

	return Result{
		Output:  out,
		Changed: out != text,
		Changes: Track(doc, n.defaults, n.style),
		Records: len(doc.Records),
	}
}
