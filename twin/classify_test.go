package twin

import "testing"

func TestClassify_FlagBoundaries(t *testing.T) {
	cfg := DefaultConfig() // alert 10, ceiling 20000
	cases := []struct {
		name string
		lux  float64
		want Flags
	}{
		{"healthy daylight", 200, Flags{}},
		{"negative", -5, Flags{Negative: true}},
		{"impossible high", 25000, Flags{ImpossibleHigh: true}},
		{"dark alert", 3, Flags{DarkAlert: true}},
		{"zero is dark", 0, Flags{DarkAlert: true}},
		{"alert threshold itself is not dark", 10, Flags{}},
		{"ceiling itself is not impossible", 20000, Flags{}},
		{"negative is not dark", -0.1, Flags{Negative: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.lux, cfg)
			if got != tc.want {
				t.Errorf("Classify(%f) = %+v, want %+v", tc.lux, got, tc.want)
			}
		})
	}
}

func TestClassify_NeverSetsStuck(t *testing.T) {
	cfg := DefaultConfig()
	for _, lux := range []float64{-50, 0, 5, 200, 30000} {
		if Classify(lux, cfg).Stuck {
			t.Errorf("Classify(%f) set Stuck; stuck detection needs series context", lux)
		}
	}
}

func TestFlags_Any(t *testing.T) {
	if (Flags{}).Any() {
		t.Error("zero Flags reported Any")
	}
	if !(Flags{Stuck: true}).Any() {
		t.Error("Stuck flag not reported by Any")
	}
	if !(Flags{Negative: true, DarkAlert: true}).Any() {
		t.Error("combined flags not reported by Any")
	}
}
