package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFeaturesDecodeJSON(t *testing.T) {
	var svc Service
	raw := `{"slug":"web","title":"Web","features":["SEO", null, {"title":"E-Ticaret","content":"# Shop"}, {"title":"Bare"}]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &svc))

	require.Len(t, svc.Features, 3)
	assert.Equal(t, PlainFeature("SEO"), svc.Features[0])
	assert.Equal(t, RichFeature{Name: "E-Ticaret", Body: "# Shop"}, svc.Features[1])
	assert.Equal(t, "Bare", svc.Features[2].Title())
	assert.False(t, HasContent(svc.Features[2]))
	assert.True(t, HasContent(svc.Features[1]))
}

func TestFeaturesDecodeJSONRejectsNumbers(t *testing.T) {
	var fs Features
	err := json.Unmarshal([]byte(`["ok", 42]`), &fs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feature 1")
}

func TestFeaturesDecodeYAML(t *testing.T) {
	src := `
slug: web
title: Web
features:
  - SEO
  - title: E-Ticaret
    content: "# Shop"
  - ~
`
	var svc Service
	require.NoError(t, yaml.Unmarshal([]byte(src), &svc))

	assert.Equal(t, "web", svc.Slug)
	assert.Equal(t, Features{PlainFeature("SEO"), RichFeature{Name: "E-Ticaret", Body: "# Shop"}}, svc.Features)
}

func TestFeaturesEncodeKeepsShape(t *testing.T) {
	fs := Features{PlainFeature("SEO"), RichFeature{Name: "Shop", Body: "x"}}

	out, err := json.Marshal(fs)
	require.NoError(t, err)
	assert.JSONEq(t, `["SEO", {"title":"Shop","content":"x"}]`, string(out))

	var back Features
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, fs, back)
}

func TestServiceNormalizeDropsBlankFeatures(t *testing.T) {
	svc := Service{Features: Features{PlainFeature("  "), nil, PlainFeature("Keep")}}
	svc.Normalize()
	assert.Equal(t, Features{PlainFeature("Keep")}, svc.Features)
}

func TestBlogIsPublished(t *testing.T) {
	f := false
	assert.True(t, Blog{}.IsPublished())
	assert.False(t, Blog{Published: &f}.IsPublished())
}
