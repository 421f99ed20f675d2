package main

import (
    "encoding/json"
    "os"
    "strconv"
    "strings"
    "time"
)

// multiFlag は同名フラグの複数指定を受け取るためのヘルパ。
type multiFlag []string

func (m *multiFlag) String() string     { return strings.Join(*m, ",") }
func (m *multiFlag) Set(s string) error { *m = append(*m, s); return nil }

// parseRotaryMaps は "index=コマンド" 形式の配列を解析し、
// ロータリー押し込みインデックス(0-7) → セレクションコマンドの map を返す。
func parseRotaryMaps(values []string) map[int]string {
    out := map[int]string{}
    for _, v := range values {
        v = strings.TrimSpace(v)
        if v == "" {
            continue
        }
        parts := strings.SplitN(v, "=", 2)
        if len(parts) != 2 {
            continue
        }
        idx, err := strconv.Atoi(strings.TrimSpace(parts[0]))
        if err != nil || idx < 0 || idx > 7 {
            continue
        }
        cmd := strings.TrimSpace(parts[1])
        if cmd == "" {
            continue
        }
        out[idx] = cmd
    }
    return out
}

// fileConfig はJSON設定ファイルの形。
type fileConfig struct {
    Host        string `json:"host"`
    Port        int    `json:"port"`
    User        string `json:"user"`
    Password    string `json:"password"`
    Surface     string `json:"surface"`
    SurfaceIn   string `json:"surface_in"`
    SurfaceOut  string `json:"surface_out"`
    PagerIn     string `json:"pager_in"`
    PagerOut    string `json:"pager_out"`
    FaderPages  int    `json:"fader_pages"`
    ButtonPages int    `json:"button_pages"`
    AckDelay    string `json:"ack_delay"`
    Timeout     string `json:"timeout"`
    Mappings    []struct {
        Type    string `json:"type"`
        Index   int    `json:"index"`
        Command string `json:"command"`
    } `json:"mappings"`
}

func loadJSONConfig(path string) (*fileConfig, error) {
    bt, err := os.ReadFile(path)
    if err != nil {
        return nil, err
    }
    var cfg fileConfig
    if err := json.Unmarshal(bt, &cfg); err != nil {
        return nil, err
    }
    return &cfg, nil
}

// fileTargets は適用先フラグ変数の束。
type fileTargets struct {
    Host, User, Password            *string
    Surface, SurfaceIn, SurfaceOut  *string
    PagerIn, PagerOut               *string
    Port, FaderPages, ButtonPages   *int
    AckDelay, Timeout               *time.Duration
}

// applyFileConfig はJSONの値を「CLIで明示指定されていないフラグ」へだけ反映し、
// rotary に mappings を追加する。
func applyFileConfig(cfg *fileConfig, set map[string]bool, tg fileTargets, rotary map[int]string) {
    setStr := func(name string, dst *string, v string) {
        if !set[name] && strings.TrimSpace(v) != "" {
            *dst = v
        }
    }
    setInt := func(name string, dst *int, v int) {
        if !set[name] && v > 0 {
            *dst = v
        }
    }
    setDur := func(name string, dst *time.Duration, v string) {
        if set[name] || strings.TrimSpace(v) == "" {
            return
        }
        if d, err := time.ParseDuration(v); err == nil && d > 0 {
            *dst = d
        }
    }

    setStr("host", tg.Host, cfg.Host)
    setInt("port", tg.Port, cfg.Port)
    setStr("user", tg.User, cfg.User)
    setStr("password", tg.Password, cfg.Password)
    setStr("surface", tg.Surface, cfg.Surface)
    setStr("surface-in", tg.SurfaceIn, cfg.SurfaceIn)
    setStr("surface-out", tg.SurfaceOut, cfg.SurfaceOut)
    setStr("pager-in", tg.PagerIn, cfg.PagerIn)
    setStr("pager-out", tg.PagerOut, cfg.PagerOut)
    setInt("fader-pages", tg.FaderPages, cfg.FaderPages)
    setInt("button-pages", tg.ButtonPages, cfg.ButtonPages)
    setDur("ack-delay", tg.AckDelay, cfg.AckDelay)
    setDur("timeout", tg.Timeout, cfg.Timeout)

    for _, m := range cfg.Mappings {
        if strings.ToLower(strings.TrimSpace(m.Type)) != "rotary" {
            continue
        }
        if m.Index < 0 || m.Index > 7 {
            continue
        }
        if strings.TrimSpace(m.Command) == "" {
            continue
        }
        rotary[m.Index] = strings.TrimSpace(m.Command)
    }
}
