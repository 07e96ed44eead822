package parser

import (
	"regexp"
	"strings"
)

// Attribute is a single name="value" pair found in a tag
type Attribute struct {
	Name  string
	Value string
}

// Attributes is an ordered attribute map. Names keep the case found in the
// source text and the order in which they first appeared.
type Attributes []Attribute

// Get returns the value stored under name (exact case)
func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// GetFold is Get with a case-insensitive name match
func (a Attributes) GetFold(name string) (string, bool) {
	for _, attr := range a {
		if strings.EqualFold(attr.Name, name) {
			return attr.Value, true
		}
	}
	return "", false
}

// Set stores value under name, overwriting an existing entry in place
func (a *Attributes) Set(name, value string) {
	for i := range *a {
		if (*a)[i].Name == name {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attribute{Name: name, Value: value})
}

// Names returns the attribute names in order
func (a Attributes) Names() []string {
	names := make([]string, len(a))
	for i, attr := range a {
		names[i] = attr.Name
	}
	return names
}

var (
	tagNameRe   = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	attributeRe = regexp.MustCompile(`([A-Za-z0-9_-]+)="([^"]*)"`)
)

// ExtractAttributes returns the attributes of the first <tag ...> found in
// line. Tag names other than plain letters and digits, or lines without the
// tag, yield an empty result. Values are taken literally.
func ExtractAttributes(line, tag string) Attributes {
	attrs := Attributes{}
	if !tagNameRe.MatchString(tag) {
		return attrs
	}

	// tag is alphanumeric so it needs no quoting
	tagRe, err := regexp.Compile(`(?i)<` + tag + `\b[^>]*>`)
	if err != nil {
		return attrs
	}
	match := tagRe.FindString(line)
	if match == "" {
		return attrs
	}

	for _, m := range attributeRe.FindAllStringSubmatch(match, -1) {
		attrs.Set(m[1], m[2])
	}
	return attrs
}
