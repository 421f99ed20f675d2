package gma2

import "testing"

func TestParseExecutorList_Basics(t *testing.T) {
    resp := "Exec 1.1 Fader NameBlinder Cue 3\n" +
        "Exec 1.2 Fader NameSpots Cue 1\n" +
        "Exec 2.3 Fader NameOther Cue 9\n" + // 別ページは無視
        "garbage line\n" +
        "Exec 1.101 Button NameStrobe\n"

    got := ParseExecutorList(1, resp)
    if len(got) != 3 {
        t.Fatalf("entries=%d: %#v", len(got), got)
    }
    if got[1] != "Blinder" || got[2] != "Spots" || got[101] != "Strobe" {
        t.Fatalf("parse => %#v", got)
    }
}

func TestParseExecutorList_ANSIAndFallback(t *testing.T) {
    resp := "Exec \x1b[33m1.4\x1b[0m Fader \x1b[33mName\x1b[37mWash\x1b[0m\n" +
        "Exec 1.5 Fader \"Front\"\n"
    got := ParseExecutorList(1, resp)
    if got[4] != "Wash" {
        t.Fatalf("ansi-stripped name => %q", got[4])
    }
    // Name前置フィールドが無ければ行末フィールド
    if got[5] != "Front" {
        t.Fatalf("fallback name => %q", got[5])
    }
}

func TestParseExecutorList_Empty(t *testing.T) {
    if got := ParseExecutorList(1, ""); len(got) != 0 {
        t.Fatalf("expected empty, got %#v", got)
    }
}

func TestCommandBuilders(t *testing.T) {
    cases := map[string]string{
        FaderAt(1, 4, 45):               "Fader 1.4 At 45",
        On(2, 8):                        "On 2.8",
        Off(1, 3):                       "Off 1.3",
        Temp(1, 7):                      "Temp 1.7",
        Flash(3, 1):                     "Flash 3.1",
        FlashOff(3, 1):                  "Flash Off 3.1",
        FaderPage(2):                    "FaderPage 2",
        ButtonPage(3):                   "ButtonPage 3",
        AttributeRelative("Pan", 12):    "Attribute \"Pan\" At ++12",
        AttributeRelative("Tilt", -5):   "Attribute \"Tilt\" At --5",
        AttributeAt("GOBO1", 34):        "Attribute \"GOBO1\" At 34",
        ListExecutorRange(2, 1, 120):    "List Executor 2.1 Thru 2.120",
        LoginCommand("Administrator", ""): "Login Administrator",
        LoginCommand("admin", "pw"):      "Login admin \"pw\"",
    }
    for got, want := range cases {
        if got != want {
            t.Fatalf("got %q want %q", got, want)
        }
    }
}
