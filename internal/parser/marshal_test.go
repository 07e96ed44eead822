package parser

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNodesMarshalJSONKeepsOrder(t *testing.T) {
	doc, err := Parse(sampleLines(), false)
	require.NoError(t, err)
	// ids that would sort differently as strings
	doc.List = append(doc.List, item(10, 0, "Ten"))

	data, err := json.Marshal(doc.List)
	require.NoError(t, err)
	assert.Equal(t,
		`{"4":{"id":4,"parent":0,"kind":"head","text":"Folder","attributes":{"ADD_DATE":"1"}},`+
			`"6":{"id":6,"parent":4,"kind":"item","text":"Link","attributes":{"HREF":"http://x"}},`+
			`"10":{"id":10,"parent":0,"kind":"item","text":"Ten","attributes":{}}}`,
		string(data))
}

func TestNodesMarshalJSONTree(t *testing.T) {
	doc, err := Parse(sampleLines(), true)
	require.NoError(t, err)

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Bookmarks", got["title"])
	assert.Equal(t, "Bookmarks", got["heading"])
	assert.NotContains(t, got, "meta")
	assert.NotContains(t, got, "Tree")

	list := got["list"].(map[string]interface{})
	folder := list["4"].(map[string]interface{})
	children := folder["children"].(map[string]interface{})
	link := children["6"].(map[string]interface{})
	assert.Equal(t, "item", link["kind"])
	assert.NotContains(t, link, "children")
}

func TestEmptyFolderMarshalsChildren(t *testing.T) {
	tree := ToTree(Nodes{head(3, 0, "Empty")}, 0)
	data, err := json.Marshal(tree)
	require.NoError(t, err)
	assert.Equal(t, `{"3":{"id":3,"parent":0,"kind":"head","text":"Empty","attributes":{},"children":{}}}`, string(data))
}

func TestEmptyListMarshalsAsObject(t *testing.T) {
	data, err := json.Marshal(&Document{})
	require.NoError(t, err)
	assert.Equal(t, `{"list":{}}`, string(data))
}

func TestAttributesMarshalYAMLKeepsOrder(t *testing.T) {
	attrs := Attributes{{"Z", "1"}, {"A", "text"}}
	data, err := yaml.Marshal(attrs)
	require.NoError(t, err)
	assert.Equal(t, "Z: \"1\"\nA: text\n", string(data))
}

func TestDocumentMarshalYAML(t *testing.T) {
	doc, err := Parse(sampleLines(), true)
	require.NoError(t, err)

	data, err := yaml.Marshal(doc)
	require.NoError(t, err)

	var got struct {
		Title string `yaml:"title"`
		List  map[int]struct {
			Kind     string                 `yaml:"kind"`
			Children map[int]map[string]any `yaml:"children"`
		} `yaml:"list"`
	}
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "Bookmarks", got.Title)
	require.Contains(t, got.List, 4)
	assert.Equal(t, "head", got.List[4].Kind)
	require.Contains(t, got.List[4].Children, 6)
	assert.Equal(t, "Link", got.List[4].Children[6]["text"])
}
