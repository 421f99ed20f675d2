package main

import (
    "os"
    "path/filepath"
    "testing"
    "time"
)

func TestParseRotaryMaps_Basics(t *testing.T) {
    in := []string{
        "1=Group 99",
        " 7 = Fixture 10 thru 12 ",
        "8=Bad",  // 範囲外
        "-1=Bad", // 範囲外
        "x=Bad",  // 不正な形式
        "2=",     // 空コマンド
    }
    got := parseRotaryMaps(in)
    if len(got) != 2 {
        t.Fatalf("expected 2 entries, got %d: %#v", len(got), got)
    }
    if got[1] != "Group 99" {
        t.Fatalf("1 => %q", got[1])
    }
    if got[7] != "Fixture 10 thru 12" {
        t.Fatalf("7 => %q", got[7])
    }
}

func TestLoadJSONConfig_Basics(t *testing.T) {
    dir := t.TempDir()
    path := filepath.Join(dir, "bridge.json")
    data := []byte(`{
        "host": "10.0.0.5",
        "port": 30001,
        "user": "guest",
        "surface": "X-TOUCH",
        "pager_in": "APC",
        "fader_pages": 2,
        "ack_delay": "300ms",
        "timeout": "1s",
        "mappings": [
          {"type":"rotary","index":0,"command":"Group 5"},
          {"type":"rotary","index":9,"command":"Bad"},
          {"type":"note_on","index":1,"command":"Ignore"}
        ]
    }`)
    if err := os.WriteFile(path, data, 0o644); err != nil {
        t.Fatal(err)
    }

    cfg, err := loadJSONConfig(path)
    if err != nil {
        t.Fatalf("loadJSONConfig error: %v", err)
    }

    host, user, password := "127.0.0.1", "Administrator", ""
    surfaceName, surfaceIn, surfaceOut := "OMNICONSOLE", "", ""
    pagerIn, pagerOut := "", ""
    port, faderPages, buttonPages := 30000, 4, 4
    ackDelay, timeout := 500*time.Millisecond, 2*time.Second
    rotary := map[int]string{}

    applyFileConfig(cfg, map[string]bool{}, fileTargets{
        Host: &host, Port: &port, User: &user, Password: &password,
        Surface: &surfaceName, SurfaceIn: &surfaceIn, SurfaceOut: &surfaceOut,
        PagerIn: &pagerIn, PagerOut: &pagerOut,
        FaderPages: &faderPages, ButtonPages: &buttonPages,
        AckDelay: &ackDelay, Timeout: &timeout,
    }, rotary)

    if host != "10.0.0.5" || port != 30001 || user != "guest" {
        t.Fatalf("host=%q port=%d user=%q", host, port, user)
    }
    if surfaceName != "X-TOUCH" || pagerIn != "APC" {
        t.Fatalf("surface=%q pagerIn=%q", surfaceName, pagerIn)
    }
    if faderPages != 2 || buttonPages != 4 {
        t.Fatalf("pages=%d/%d", faderPages, buttonPages)
    }
    if ackDelay != 300*time.Millisecond || timeout != time.Second {
        t.Fatalf("ack=%v timeout=%v", ackDelay, timeout)
    }
    if len(rotary) != 1 || rotary[0] != "Group 5" {
        t.Fatalf("rotary=%#v", rotary)
    }
}

func TestApplyFileConfig_CLIOverrides(t *testing.T) {
    cfg := &fileConfig{Host: "10.0.0.5", Port: 30001, AckDelay: "300ms"}

    host := "cli-host"
    port := 12345
    ackDelay := 10 * time.Millisecond
    dummyStr := ""
    dummyInt := 0
    dummyDur := time.Second

    applyFileConfig(cfg, map[string]bool{"host": true, "port": true, "ack-delay": true}, fileTargets{
        Host: &host, Port: &port, User: &dummyStr, Password: &dummyStr,
        Surface: &dummyStr, SurfaceIn: &dummyStr, SurfaceOut: &dummyStr,
        PagerIn: &dummyStr, PagerOut: &dummyStr,
        FaderPages: &dummyInt, ButtonPages: &dummyInt,
        AckDelay: &ackDelay, Timeout: &dummyDur,
    }, map[int]string{})

    if host != "cli-host" || port != 12345 || ackDelay != 10*time.Millisecond {
        t.Fatalf("override failed: host=%q port=%d ack=%v", host, port, ackDelay)
    }
}
