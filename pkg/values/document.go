// Package values implements round-trip editing of Helm values documents.
//
// A Document keeps the original bytes next to the parsed yaml.v3 node tree.
// Edits to single-token scalars are spliced into the original bytes, so
// comments, key order, indentation and blank lines outside the edited token
// are reproduced exactly. Edits that cannot be spliced fall back to
// re-encoding the node tree, which keeps comments and key order but
// normalizes whitespace.
package values

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	log "github.com/lucas-albers-lz4/upgrade-component/pkg/log"
	"gopkg.in/yaml.v3"
)

const (
	imageKey      = "image"
	tagKey        = "tag"
	repositoryKey = "repository"

	strTag   = "!!str"
	mergeTag = "!!merge"

	defaultIndent = 2
)

// Document is a parsed values file that remembers its original bytes.
type Document struct {
	original []byte
	root     *yaml.Node

	// extraDocuments is set when the stream holds more than one YAML document.
	// Only the first one is addressable.
	extraDocuments bool

	edits    map[*yaml.Node]*scalarEdit
	reencode bool
}

// scalarEdit replaces original[start:end] with the rendered value.
type scalarEdit struct {
	start int
	end   int
	value string
	style yaml.Style
	flow  bool
}

// TagLocation describes where a component's image tag lives in a Document.
type TagLocation struct {
	// Component is the top-level key the tag belongs to.
	Component string
	// Repository is the sibling image.repository value, empty when absent.
	Repository string
	// Tag is the current tag value.
	Tag string
	// Line and Column are 1-based positions of the tag value in the source.
	Line   int
	Column int

	node *yaml.Node
	flow bool
}

// Parse decodes data into a Document. The first document in the stream must
// be a mapping.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var root yaml.Node
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, WrapNotAMapping("document root", "empty document")
		}
		return nil, WrapParse(err)
	}

	doc := &Document{
		original: data,
		root:     &root,
		edits:    make(map[*yaml.Node]*scalarEdit),
	}

	var next yaml.Node
	switch err := dec.Decode(&next); {
	case err == nil:
		doc.extraDocuments = true
		log.Debug("Values stream holds more than one document, only the first is addressable")
	case errors.Is(err, io.EOF):
	default:
		return nil, WrapParse(err)
	}

	if top := doc.top(); top == nil || top.Kind != yaml.MappingNode {
		return nil, WrapNotAMapping("document root", kindName(top))
	}
	return doc, nil
}

func (d *Document) top() *yaml.Node {
	if d.root == nil || len(d.root.Content) == 0 {
		return nil
	}
	return resolve(d.root.Content[0])
}

// Lookup finds component.image.tag. Aliases along the path are followed.
func (d *Document) Lookup(component string) (*TagLocation, error) {
	compNode := mappingValue(d.top(), component)
	if compNode == nil {
		return nil, WrapComponentNotFound(component)
	}
	compNode = resolve(compNode)
	if compNode.Kind != yaml.MappingNode {
		return nil, WrapNotAMapping(component, kindName(compNode))
	}

	imageNode := mappingValue(compNode, imageKey)
	if imageNode == nil {
		return nil, WrapImageNotFound(component)
	}
	imageNode = resolve(imageNode)
	if imageNode.Kind != yaml.MappingNode {
		return nil, WrapNotAMapping(component+"."+imageKey, kindName(imageNode))
	}

	tagNode := mappingValue(imageNode, tagKey)
	if tagNode == nil {
		return nil, WrapTagNotFound(component)
	}

	loc := &TagLocation{
		Component: component,
		Line:      tagNode.Line,
		Column:    tagNode.Column,
		node:      tagNode,
		flow:      imageNode.Style&yaml.FlowStyle != 0,
	}
	if target := resolve(tagNode); target.Kind == yaml.ScalarNode {
		loc.Tag = target.Value
	}
	if repo := mappingValue(imageNode, repositoryKey); repo != nil {
		if repo = resolve(repo); repo.Kind == yaml.ScalarNode {
			loc.Repository = repo.Value
		}
	}
	return loc, nil
}

// SetImageTag sets component.image.tag to version and returns the previous tag.
// The value is always stored as a string. Nothing is created: every key on
// the path must already exist.
func (d *Document) SetImageTag(component, version string) (string, error) {
	loc, err := d.Lookup(component)
	if err != nil {
		return "", err
	}
	node := loc.node

	if edit, ok := d.edits[node]; ok {
		edit.value = version
		node.Value = version
		return loc.Tag, nil
	}
	if node.Kind == yaml.ScalarNode && node.Value == version && node.ShortTag() == strTag {
		log.Debug("Tag already set", "component", component, "tag", version)
		return loc.Tag, nil
	}

	switch {
	case node.Style&yaml.TaggedStyle != 0 && node.ShortTag() != strTag:
		// An explicit non-string tag would no longer match the new value.
		d.reencode = true
	case node.Kind == yaml.ScalarNode, node.Kind == yaml.AliasNode:
		if start, end, ok := d.tokenRange(node, loc.flow); ok {
			style := node.Style
			if node.Kind == yaml.AliasNode {
				style = 0
			}
			d.edits[node] = &scalarEdit{start: start, end: end, value: version, style: style, flow: loc.flow}
		} else {
			log.Debug("Tag cannot be spliced, document will be re-encoded", "component", component, "line", node.Line)
			d.reencode = true
		}
	default:
		d.reencode = true
	}

	replaceScalar(node, version)
	return loc.Tag, nil
}

// Bytes renders the document with all edits applied.
func (d *Document) Bytes() ([]byte, error) {
	if d.reencode {
		return d.encode()
	}
	if len(d.edits) == 0 {
		return bytes.Clone(d.original), nil
	}
	return d.splice(), nil
}

func (d *Document) splice() []byte {
	edits := make([]*scalarEdit, 0, len(d.edits))
	for _, e := range d.edits {
		edits = append(edits, e)
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var out bytes.Buffer
	out.Grow(len(d.original))
	last := 0
	for _, e := range edits {
		out.Write(d.original[last:e.start])
		out.WriteString(renderScalar(e.value, e.style, e.flow))
		last = e.end
	}
	out.Write(d.original[last:])
	return out.Bytes()
}

func (d *Document) encode() ([]byte, error) {
	if d.extraDocuments {
		return nil, fmt.Errorf("%w: re-encoding would drop the additional YAML documents", ErrUnsupportedEdit)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(detectIndent(d.original))
	if err := enc.Encode(d.root); err != nil {
		return nil, fmt.Errorf("failed to encode values: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode values: %w", err)
	}
	return buf.Bytes(), nil
}

// tokenRange returns the byte range of the scalar (or alias) token of node in
// the original source. Anchors and explicit tags in front of the scalar are
// left outside the range.
func (d *Document) tokenRange(node *yaml.Node, flow bool) (int, int, bool) {
	pos, ok := offsetOf(d.original, node.Line, node.Column)
	if !ok {
		return 0, 0, false
	}
	src := d.original

	if node.Kind == yaml.AliasNode {
		tok := "*" + node.Value
		if bytes.HasPrefix(src[pos:], []byte(tok)) {
			return pos, pos + len(tok), true
		}
		return 0, 0, false
	}

	if pos, ok = skipProperties(src, pos); !ok {
		return 0, 0, false
	}
	end, ok := scanScalar(src, pos, node.Style, flow)
	if !ok || !tokenDecodesTo(src[pos:end], node.Value) {
		return 0, 0, false
	}
	return pos, end, true
}

func replaceScalar(node *yaml.Node, value string) {
	if node.Kind != yaml.ScalarNode {
		*node = yaml.Node{
			Kind:        yaml.ScalarNode,
			HeadComment: node.HeadComment,
			LineComment: node.LineComment,
			FootComment: node.FootComment,
			Line:        node.Line,
			Column:      node.Column,
		}
	}
	node.Value = value
	node.Tag = strTag
	node.Style &^= yaml.TaggedStyle
}

// mappingValue returns the value node for key in mapping m, or nil. Keys
// written in m win over keys pulled in through merge keys (<<); among merged
// mappings the first one listed wins.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	var merges []*yaml.Node
	for i := 0; i+1 < len(m.Content); i += 2 {
		k := resolve(m.Content[i])
		if k.Kind != yaml.ScalarNode {
			continue
		}
		if k.ShortTag() == mergeTag {
			merges = append(merges, resolve(m.Content[i+1]))
			continue
		}
		if k.Value == key {
			return m.Content[i+1]
		}
	}
	for _, merged := range merges {
		sources := []*yaml.Node{merged}
		if merged.Kind == yaml.SequenceNode {
			sources = merged.Content
		}
		for _, src := range sources {
			if v := mappingValue(resolve(src), key); v != nil {
				return v
			}
		}
	}
	return nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func kindName(n *yaml.Node) string {
	if n == nil {
		return "missing value"
	}
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.AliasNode:
		return "alias"
	}
	if n.ShortTag() == "!!null" {
		return "null"
	}
	return "scalar"
}
