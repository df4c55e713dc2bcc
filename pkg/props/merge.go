package props

import "github.com/elix-dev/elix/pkg/dom"

// Merge returns a new Props with each overlay applied over base in order.
//
// For every leaf (attribute, class, style property, property) the rightmost
// Props that mentions the key wins; keys no overlay mentions pass through from
// base. Content is replaced wholesale by the rightmost non-nil Content.
// Parts merge recursively by part name. None of the inputs are modified.
//
// Because precedence is purely "rightmost wins" per leaf, Merge is
// associative: Merge(a, Merge(b, c)) equals Merge(Merge(a, b), c).
func Merge(base Props, overlays ...Props) Props {
	out := Props{
		Attributes: mergeMap(nil, base.Attributes),
		Classes:    mergeMap(nil, base.Classes),
		Style:      mergeMap(nil, base.Style),
		Properties: mergeMap(nil, base.Properties),
		Content:    copyNodes(base.Content),
		Parts:      mergeParts(nil, base.Parts),
	}
	for _, o := range overlays {
		out.Attributes = mergeMap(out.Attributes, o.Attributes)
		out.Classes = mergeMap(out.Classes, o.Classes)
		out.Style = mergeMap(out.Style, o.Style)
		out.Properties = mergeMap(out.Properties, o.Properties)
		if o.Content != nil {
			out.Content = copyNodes(o.Content)
		}
		out.Parts = mergeParts(out.Parts, o.Parts)
	}
	return out
}

// mergeMap copies src over dst, allocating dst if needed. dst must be owned
// by the caller. A nil result is returned when both are empty.
func mergeMap[V any](dst, src map[string]V) map[string]V {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]V, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func mergeParts(dst, src map[string]Props) map[string]Props {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]Props, len(src))
	}
	for name, p := range src {
		if existing, ok := dst[name]; ok {
			dst[name] = Merge(existing, p)
		} else {
			dst[name] = Merge(Props{}, p)
		}
	}
	return dst
}

func copyNodes(nodes []*dom.Node) []*dom.Node {
	if nodes == nil {
		return nil
	}
	return append(make([]*dom.Node, 0, len(nodes)), nodes...)
}
