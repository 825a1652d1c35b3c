package filter

import "testing"

func TestSobelKernels_SumToZero(t *testing.T) {
	for name, k := range map[string]Kernel3{"SobelX": SobelX, "SobelY": SobelY} {
		if s := k.Sum(); s != 0 {
			t.Errorf("%s.Sum() = %d, want 0", name, s)
		}
	}
}

func TestSobelKernels_Orthogonal(t *testing.T) {
	// SobelY is SobelX rotated; transposing X gives Y up to sign.
	tr := SobelX.Transpose()
	for i := range 3 {
		for j := range 3 {
			if tr[i][j] != -SobelY[i][j] {
				t.Fatalf("SobelX.Transpose()[%d][%d] = %d, want %d", i, j, tr[i][j], -SobelY[i][j])
			}
		}
	}
}

func TestTranspose_Involution(t *testing.T) {
	k := Kernel3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	if k.Transpose().Transpose() != k {
		t.Error("Transpose().Transpose() != identity")
	}
}

func TestParseChannel(t *testing.T) {
	tests := []struct {
		in      string
		want    Channel
		wantErr bool
	}{
		{"r", ChannelRed, false},
		{"Red", ChannelRed, false},
		{"g", ChannelGreen, false},
		{"GREEN", ChannelGreen, false},
		{"b", ChannelBlue, false},
		{"blue", ChannelBlue, false},
		{"alpha", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseChannel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseChannel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseChannel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestChannel_String(t *testing.T) {
	for _, c := range []Channel{ChannelRed, ChannelGreen, ChannelBlue} {
		back, err := ParseChannel(c.String())
		if err != nil || back != c {
			t.Errorf("ParseChannel(%q) = %v, %v; want %v", c.String(), back, err, c)
		}
		if !c.Valid() {
			t.Errorf("%v.Valid() = false", c)
		}
	}
	if Channel(3).Valid() || Channel(-1).Valid() {
		t.Error("out-of-range channel reported valid")
	}
}
