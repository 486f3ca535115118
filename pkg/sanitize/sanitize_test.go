package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	assert.Equal(t, "hello", Text("  <b>hello</b> "))
	assert.Equal(t, "", Text(`<script>alert("x")</script>`))
	assert.Equal(t, "Tom & Jerry", Text("Tom & Jerry"))
	assert.Equal(t, "5 > 3", Text("5 > 3"))
}

func TestTextEncodedMarkup(t *testing.T) {
	tests := map[string]string{
		"&lt;script&gt;alert(1)&lt;/script&gt;":                 "",
		"&lt;img src=x onerror=alert(1)&gt;":                    "",
		"&lt;b&gt;Jane&lt;/b&gt;":                               "Jane",
		"&amp;lt;script&amp;gt;alert(1)&amp;lt;/script&amp;gt;": "",
		"Tom &amp; Jerry":                                       "Tom & Jerry",
		"it&#39;s":                                              "it's",
	}
	for in, want := range tests {
		out := Text(in)
		assert.Equal(t, want, out, in)
		assert.NotContains(t, out, "<", in)
	}
}

func TestValueNested(t *testing.T) {
	in := map[string]interface{}{
		"name":  "<i>Jane</i>",
		"count": float64(2),
		"tags":  []interface{}{"<b>a</b>", "b"},
		"inner": map[string]interface{}{"bio": "<p>hi</p>"},
	}
	out := Value(in).(map[string]interface{})
	assert.Equal(t, "Jane", out["name"])
	assert.Equal(t, float64(2), out["count"])
	assert.Equal(t, []interface{}{"a", "b"}, out["tags"])
	assert.Equal(t, "hi", out["inner"].(map[string]interface{})["bio"])
}
