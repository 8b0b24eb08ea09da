package annotate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotateMixedDescription(t *testing.T) {
	in := "UL Listed, compatible with FM and EN54-23 panels, SKU KC-ADDR-FCP-5000"

	want := []Span{
		{Kind: KindCertification, Text: "UL", Label: "UL"},
		{Kind: KindPlain, Text: " Listed, compatible with ", Label: " Listed, compatible with "},
		{Kind: KindCertification, Text: "FM", Label: "FM"},
		{Kind: KindPlain, Text: " and ", Label: " and "},
		{Kind: KindCertification, Text: "EN54-23", Label: "EN54-23"},
		{Kind: KindPlain, Text: " panels, SKU ", Label: " panels, SKU "},
		{Kind: KindCode, Text: "KC-ADDR-FCP-5000", Label: "KC-ADDR-FCP-5000"},
	}

	got := Annotate(in)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
}

func TestAnnotateBareENDisplaysAsEN54(t *testing.T) {
	got := Annotate("Certified to EN and UL standards")

	want := []Span{
		{Kind: KindPlain, Text: "Certified to ", Label: "Certified to "},
		{Kind: KindCertification, Text: "EN", Label: "EN54"},
		{Kind: KindPlain, Text: " and ", Label: " and "},
		{Kind: KindCertification, Text: "UL", Label: "UL"},
		{Kind: KindPlain, Text: " standards", Label: " standards"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
}

func TestAnnotateEmpty(t *testing.T) {
	got := Annotate("")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAnnotatePlainOnly(t *testing.T) {
	got := Annotate("Reliable smoke detection for small sites.")
	require.Len(t, got, 1)
	assert.Equal(t, KindPlain, got[0].Kind)
}

func TestAnnotateRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"UL/FM/CSFM",
		"FM/UL/VdS approved, IP67 rated",
		"Class A (EN54-20) with 4G/LTE backup",
		"ISO 7240 and NFPA 72 compliant; AS 1670 listed",
		"EST4 with SIGA-PS detectors and VESDA-E VEU",
		"trailing code 12AB-3C",
		"ünïcödé text around EN54 and ATEX zones",
		"  leading and trailing spaces  ",
	}

	for _, in := range inputs {
		spans := Annotate(in)
		assert.Equal(t, in, Text(spans), "round trip of %q", in)
		for i := 1; i < len(spans); i++ {
			assert.False(t, spans[i].Kind == KindPlain && spans[i-1].Kind == KindPlain,
				"adjacent plain spans in %q", in)
		}
	}
}

func TestAnnotateClassifications(t *testing.T) {
	tests := []struct {
		in   string
		want []Kind
	}{
		{in: "UL/FM/CSFM", want: []Kind{KindCertification, KindPlain, KindCertification, KindPlain, KindCertification}},
		{in: "IP67", want: []Kind{KindCode}},
		{in: "12AB-3C", want: []Kind{KindCode}},
		{in: "EST4", want: []Kind{KindCode}},
		{in: "ISO 7240", want: []Kind{KindCertification}},
		{in: "iecex", want: []Kind{KindCertification}},
		{in: "SKU", want: []Kind{KindPlain}},
		{in: "ULCER", want: []Kind{KindPlain}},
		{in: "AS 1670", want: []Kind{KindCertification}},
		{in: "SIL 2", want: []Kind{KindCertification}},
		{in: "Configure as 2 loops", want: []Kind{KindPlain}},
		{in: "up to 32 devices as 1 network", want: []Kind{KindPlain}},
		{in: "iso 9001 and sil 3", want: []Kind{KindPlain}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			spans := Annotate(tt.in)
			kinds := make([]Kind, 0, len(spans))
			for _, s := range spans {
				kinds = append(kinds, s.Kind)
			}
			assert.Equal(t, tt.want, kinds)
		})
	}
}

func TestCertificationWinsOverCode(t *testing.T) {
	// EN54 also fits the letters-then-digits code shape
	spans := Annotate("EN54")
	require.Len(t, spans, 1)
	assert.Equal(t, KindCertification, spans[0].Kind)
	assert.Equal(t, "EN54", spans[0].Label)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindCertification, Classify("LPCB"))
	assert.Equal(t, KindCertification, Classify("en"))
	assert.Equal(t, KindCode, Classify("KC-WIRE-HUB-500"))
	assert.Equal(t, KindPlain, Classify("panel"))
	assert.Equal(t, KindPlain, Classify("UL Listed"))
}
