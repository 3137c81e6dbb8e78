package lingua_test

import (
	"testing"

	"github.com/fwojciec/siteport/lingua"
	"github.com/stretchr/testify/assert"
)

func TestDetector_DetectLanguage(t *testing.T) {
	t.Parallel()

	d := lingua.NewDetector()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "detects English copy",
			text: "Discover our range of cordless drills, built to last and backed by a five year warranty.",
			want: "en",
		},
		{
			name: "detects German copy",
			text: "Entdecken Sie unser Sortiment an Akku-Bohrschraubern, gebaut für den täglichen Einsatz auf der Baustelle.",
			want: "de",
		},
		{
			name: "detects French copy",
			text: "Découvrez notre gamme de perceuses sans fil, conçues pour durer et garanties cinq ans.",
			want: "fr",
		},
		{
			name: "returns empty for short text",
			text: "Shop now",
			want: "",
		},
		{
			name: "returns empty for blank text",
			text: "   ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, d.DetectLanguage(tt.text))
		})
	}
}
