package xmltree_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/spoke/xmltree"
)

type comment struct{ kind, text string }

func (c *comment) TreeFields() []xmltree.Field {
	return []xmltree.Field{{Name: "Type", Value: c.kind}, {Name: "CommentText", Value: c.text}}
}

func childTags(el *etree.Element) []string {
	var out []string
	for _, c := range el.ChildElements() {
		out = append(out, c.Tag)
	}
	return out
}

func TestBuild_NodeKeepsFieldOrder(t *testing.T) {
	el, err := xmltree.Build("Order", xmltree.Map{
		{Name: "OrderId", Value: 2},
		{Name: "Comments", Value: []*comment{{"Printer", "hi"}, {"Packaging", "wrap"}}, ElementTag: "Comment"},
		{Name: "Note", Value: nil},
	})
	require.NoError(t, err)

	assert.Equal(t, "Order", el.Tag)
	if diff := cmp.Diff([]string{"OrderId", "Comments", "Note"}, childTags(el)); diff != "" {
		t.Fatalf("child order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "2", el.SelectElement("OrderId").Text())

	comments := el.SelectElement("Comments")
	require.NotNil(t, comments)
	assert.Equal(t, []string{"Comment", "Comment"}, childTags(comments))
	assert.Equal(t, "Packaging", comments.ChildElements()[1].SelectElement("Type").Text())
	assert.Equal(t, "wrap", comments.ChildElements()[1].SelectElement("CommentText").Text())
	assert.Empty(t, el.SelectElement("Note").ChildElements())
}

func TestBuild_MapIsSorted(t *testing.T) {
	el, err := xmltree.Build("Root", map[string]any{"b": 1, "a": map[string]any{"z": true, "y": 1.5}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, childTags(el))
	a := el.SelectElement("a")
	assert.Equal(t, []string{"y", "z"}, childTags(a))
	assert.Equal(t, "1.5", a.SelectElement("y").Text())
	assert.Equal(t, "true", a.SelectElement("z").Text())
}

func TestBuild_ListWithoutElementTag(t *testing.T) {
	_, err := xmltree.Build("Root", xmltree.Map{{Name: "Tags", Value: []string{"x"}}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, xmltree.ErrNoElementTag))
	assert.Contains(t, err.Error(), "Tags")

	_, err = xmltree.Build("Root", map[string]any{"Tags": []string{"x"}})
	assert.ErrorIs(t, err, xmltree.ErrNoElementTag)
}

func TestBuild_NilNode(t *testing.T) {
	var c *comment
	el, err := xmltree.Build("Comment", c)
	require.NoError(t, err)
	assert.Empty(t, el.ChildElements())
}

func TestMarshal_RendersIndentedDocument(t *testing.T) {
	out, err := xmltree.Marshal("Request", xmltree.Map{
		{Name: "Customer", Value: "abc123"},
		{Name: "RequestType", Value: "Cancel"},
		{Name: "Order", Value: xmltree.Map{{Name: "OrderId", Value: "7"}}},
	})
	require.NoError(t, err)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, `<?xml version="1.0" encoding="UTF-8"?>`), s)
	assert.Contains(t, s, "\n  <Customer>abc123</Customer>\n")
	assert.Contains(t, s, "\n    <OrderId>7</OrderId>\n")

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	assert.Equal(t, "7", doc.FindElement("/Request/Order/OrderId").Text())
}

func TestMarshal_EscapesText(t *testing.T) {
	out, err := xmltree.Marshal("Gift", xmltree.Map{{Name: "GiftMessage", Value: "Tom & Jerry <3"}})
	require.NoError(t, err)
	assert.Contains(t, string(out), "Tom &amp; Jerry &lt;3")
}
