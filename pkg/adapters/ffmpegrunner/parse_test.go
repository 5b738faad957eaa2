package ffmpegrunner

import "testing"

func TestParseDuration(t *testing.T) {
	cases := []struct {
		line string
		want float64
		ok   bool
	}{
		{"  Duration: 00:00:05.00, start: 0.000000, bitrate: 1234 kb/s", 5.0, true},
		{"  Duration: 01:02:03.50, start: 0.000000", 3723.5, true},
		{"  Duration: 00:00:00.08", 0.08, true},
		{"frame=  120 fps= 30", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := parseDuration(c.line)
		if ok != c.ok || got != c.want {
			t.Errorf("parseDuration(%q) = %v, %v; want %v, %v", c.line, got, ok, c.want, c.ok)
		}
	}
}

func TestParseCodec(t *testing.T) {
	cases := []struct {
		line string
		want string
		ok   bool
	}{
		{"  Stream #0:0(und): Video: h264 (High) (avc1 / 0x31637661), yuv420p", "h264", true},
		{"  Stream #0:0: Video: vp9 (Profile 0), yuv420p(tv)", "vp9", true},
		{"  Stream #0:1(und): Audio: aac (LC), 44100 Hz", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := parseCodec(c.line)
		if ok != c.ok || got != c.want {
			t.Errorf("parseCodec(%q) = %q, %v; want %q, %v", c.line, got, ok, c.want, c.ok)
		}
	}
}

func TestParseTimemark(t *testing.T) {
	cases := []struct {
		line string
		want string
		ok   bool
	}{
		{"frame=  120 fps= 30 q=28.0 size=     512kB time=00:00:04.00 bitrate=1048.6kbits/s speed=1.01x", "00:00:04.00", true},
		{"size=    1024kB time= 00:01:30.25 bitrate= 92.9kbits/s", "00:01:30.25", true},
		{"  Duration: 00:00:05.00, start: 0.000000", "", false},
	}
	for _, c := range cases {
		got, ok := parseTimemark(c.line)
		if ok != c.ok || got != c.want {
			t.Errorf("parseTimemark(%q) = %q, %v; want %q, %v", c.line, got, ok, c.want, c.ok)
		}
	}
}

func TestTimemarkSeconds(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"00:00:04.00", 4.0, false},
		{"00:01:30.25", 90.25, false},
		{"02:00:00.00", 7200.0, false},
		{" 00:00:01.50 ", 1.5, false},
		{"04.00", 0, true},
		{"aa:bb:cc", 0, true},
		{"", 0, true},
	}
	for _, c := range cases {
		got, err := TimemarkSeconds(c.in)
		if (err != nil) != c.wantErr {
			t.Errorf("TimemarkSeconds(%q) error = %v, wantErr %v", c.in, err, c.wantErr)
			continue
		}
		if !c.wantErr && got != c.want {
			t.Errorf("TimemarkSeconds(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
