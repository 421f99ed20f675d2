package surface

import (
    "bytes"
    "testing"
)

func TestFaderRoundTrip_WithinOneUnit(t *testing.T) {
    // 14bit量子化の丸め誤差は±1%以内に収まること
    for p := 0; p <= 100; p++ {
        raw := EncodeFader(3, PercentToValue(p))
        ev := Decode(raw)
        if ev.Kind != FaderMove {
            t.Fatalf("p=%d: kind=%v", p, ev.Kind)
        }
        if ev.Channel != 3 {
            t.Fatalf("p=%d: channel=%d", p, ev.Channel)
        }
        diff := ev.Percent - p
        if diff < -1 || diff > 1 {
            t.Fatalf("p=%d: round trip => %d", p, ev.Percent)
        }
    }
}

func TestDecode_FaderMove(t *testing.T) {
    // 45% ≒ 7372 (LSB=0x4C, MSB=0x39)
    v := PercentToValue(45)
    ev := Decode([]byte{0xE2, byte(v & 0x7F), byte(v >> 7)})
    if ev.Kind != FaderMove || ev.Channel != 2 {
        t.Fatalf("ev=%+v", ev)
    }
    if ev.Percent != 45 {
        t.Fatalf("percent=%d", ev.Percent)
    }
    if ev.Value != v {
        t.Fatalf("value=%d want %d", ev.Value, v)
    }
}

func TestDecode_Buttons(t *testing.T) {
    cases := []struct {
        in      []byte
        note    int
        pressed bool
    }{
        {[]byte{0x90, 5, 127}, 5, true},
        {[]byte{0x90, 5, 0}, 5, false}, // NoteOn vel=0 はリリース
        {[]byte{0x80, 17, 64}, 17, false},
    }
    for _, c := range cases {
        ev := Decode(c.in)
        if ev.Kind != ButtonEvent || ev.Note != c.note || ev.Pressed != c.pressed {
            t.Fatalf("in=%v ev=%+v", c.in, ev)
        }
    }
}

func TestDecode_EncoderRelative(t *testing.T) {
    cases := map[int]int{
        0:   0,
        1:   1,
        63:  63,
        64:  0,
        65:  -1,
        80:  -16,
        127: -63,
    }
    for raw, want := range cases {
        ev := Decode([]byte{0xB0, CCGobo, byte(raw)})
        if ev.Kind != EncoderTurn || ev.Control != CCGobo {
            t.Fatalf("raw=%d ev=%+v", raw, ev)
        }
        if ev.Delta != want {
            t.Fatalf("raw=%d delta=%d want %d", raw, ev.Delta, want)
        }
    }
}

func TestDecode_MalformedIsUnknown(t *testing.T) {
    cases := [][]byte{
        nil,
        {},
        {0x90},
        {0x90, 5},
        {0xE0, 0x00},
        {0xC0, 1, 2},       // ProgramChange は対象外
        {0xE9, 0x00, 0x00}, // フェーダーは8本のみ
    }
    for _, c := range cases {
        if ev := Decode(c); ev.Kind != Unknown {
            t.Fatalf("in=%v ev=%+v", c, ev)
        }
    }
}

func TestEncodeLED(t *testing.T) {
    if got := EncodeLED(16, true); !bytes.Equal(got, []byte{0x90, 16, 127}) {
        t.Fatalf("on => %v", got)
    }
    if got := EncodeLED(16, false); !bytes.Equal(got, []byte{0x90, 16, 0}) {
        t.Fatalf("off => %v", got)
    }
}

func TestEncodeDisplay_Offsets(t *testing.T) {
    top := EncodeDisplay(2, 0, "Blinder")
    if top[6] != 14 {
        t.Fatalf("row0 offset=%d", top[6])
    }
    bottom := EncodeDisplay(2, 1, "Blinder")
    if bottom[6] != 56+14 {
        t.Fatalf("row1 offset=%d", bottom[6])
    }
    want := append([]byte{0xF0, 0x00, 0x00, 0x66, 0x15, 0x12, 14}, []byte("Blinder")...)
    want = append(want, 0xF7)
    if !bytes.Equal(top, want) {
        t.Fatalf("sysex=%v want %v", top, want)
    }
}

func TestFitLabel(t *testing.T) {
    cases := map[string]string{
        "":          "       ",
        "Spot":      "Spot   ",
        "Blinder":   "Blinder",
        "Blinders2": "Blinder",
        "a\x01b\tc": "a b c  ",
        "abc\x80def": "abc def",
    }
    for in, want := range cases {
        if got := FitLabel(in); got != want {
            t.Fatalf("FitLabel(%q)=%q; want %q", in, got, want)
        }
    }
}
