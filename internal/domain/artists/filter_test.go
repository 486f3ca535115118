package artists

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func names(list []Artist) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.Name)
	}
	return out
}

func strPtr(s string) *string { return &s }

func sampleArtists() []Artist {
	return []Artist{
		{Name: "A", Languages: []string{"English"}, VoiceGender: GenderMale},
		{Name: "B", Languages: []string{"French"}, VoiceGender: GenderFemale},
	}
}

func TestFilter_Scenarios(t *testing.T) {
	list := sampleArtists()

	assert.Equal(t, []string{"A"}, names(Filter(list, "English", nil)))
	assert.Equal(t, []string{"B"}, names(Filter(list, AllLanguages, strPtr("female"))))
	assert.Empty(t, Filter(list, "German", nil))
	assert.Equal(t, []string{"A", "B"}, names(Filter(list, AllLanguages, nil)))
}

func TestFilter_GenderIsCaseInsensitive(t *testing.T) {
	list := sampleArtists()

	assert.Equal(t, []string{"A"}, names(Filter(list, AllLanguages, strPtr("MALE"))))
	assert.Equal(t, []string{"B"}, names(Filter(list, "French", strPtr("Female"))))
	assert.Empty(t, Filter(list, "French", strPtr("male")))
}

func TestFilter_NilLanguagesBehaveLikeEmpty(t *testing.T) {
	withNil := []Artist{{Name: "N", Languages: nil, VoiceGender: GenderNeutral}}
	withEmpty := []Artist{{Name: "N", Languages: []string{}, VoiceGender: GenderNeutral}}

	for _, lang := range []string{AllLanguages, "English"} {
		for _, g := range []*string{nil, strPtr("neutral"), strPtr("male")} {
			assert.Equal(t, names(Filter(withEmpty, lang, g)), names(Filter(withNil, lang, g)))
		}
	}
	assert.Empty(t, Filter(withNil, "English", nil))
	assert.Len(t, Filter(withNil, AllLanguages, nil), 1)
}

func TestFilter_Idempotent(t *testing.T) {
	list := append(sampleArtists(),
		Artist{Name: "C", Languages: []string{"English", "French"}, VoiceGender: GenderFemale},
		Artist{Name: "D", Languages: nil},
	)

	cases := []struct {
		lang   string
		gender *string
	}{
		{AllLanguages, nil},
		{"English", nil},
		{"French", strPtr("female")},
		{AllLanguages, strPtr("neutral")},
	}
	for _, c := range cases {
		once := Filter(list, c.lang, c.gender)
		twice := Filter(once, c.lang, c.gender)
		assert.Equal(t, names(once), names(twice))
	}
}

func TestFilter_MembershipProperty(t *testing.T) {
	list := append(sampleArtists(),
		Artist{Name: "C", Languages: []string{"English", "French"}, VoiceGender: GenderFemale},
		Artist{Name: "D"},
	)
	langs := []string{AllLanguages, "English", "French", "German"}
	genders := []*string{nil, strPtr("male"), strPtr("Female"), strPtr("neutral")}

	for _, lang := range langs {
		for _, g := range genders {
			got := map[string]bool{}
			for _, a := range Filter(list, lang, g) {
				got[a.Name] = true
			}
			for _, a := range list {
				langOK := lang == AllLanguages || a.SpeaksLanguage(lang)
				genderOK := g == nil || string(a.VoiceGender) == lowerASCII(*g)
				assert.Equal(t, langOK && genderOK, got[a.Name], "artist %s lang=%s", a.Name, lang)
			}
		}
	}
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 32
		}
	}
	return string(b)
}

func TestParams(t *testing.T) {
	assert.Nil(t, GenderParam("  "))
	assert.Equal(t, "female", *GenderParam("female"))
	assert.Equal(t, AllLanguages, LanguageParam(""))
	assert.Equal(t, AllLanguages, LanguageParam("ALL"))
	assert.Equal(t, "English", LanguageParam(" English "))
}

func TestParseVoiceGender(t *testing.T) {
	g, ok := ParseVoiceGender(" Female ")
	assert.True(t, ok)
	assert.Equal(t, GenderFemale, g)

	_, ok = ParseVoiceGender("robot")
	assert.False(t, ok)
}
