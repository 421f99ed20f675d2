package main

import (
    "context"
    "flag"
    "fmt"
    "log"
    "os"
    "os/signal"
    "syscall"
    "time"

    "omniconsole/internal/bridge"
    "omniconsole/internal/gma2"
    "omniconsole/internal/midi"
)

// これらは ldflags で上書き可能:
// go build -ldflags "-X main.version=1.2.3 -X main.commit=abcd123 -X main.date=2025-08-12T01:23:45Z"
var (
    version = "dev"
    commit  = "none"
    date    = "unknown"
)

func main() {
    if len(os.Args) < 2 {
        usage()
        os.Exit(2)
    }

    switch os.Args[1] {
    case "run":
        runBridge(os.Args[2:])
    case "ls-devices":
        runLsDevices()
    case "version":
        printVersion()
    case "help", "-h", "--help":
        if len(os.Args) > 2 && os.Args[2] == "run" {
            runUsage()
        } else {
            usage()
        }
    case "-v", "--version":
        printVersion()
    default:
        log.Printf("不明なサブコマンド: %s", os.Args[1])
        usage()
        os.Exit(2)
    }
}

func usage() {
    fmt.Println("omnictl - コントロールサーフェスとgrandMA2 telnetのブリッジ")
    fmt.Println("")
    fmt.Println("使用方法:")
    fmt.Println("  omnictl <command> [options]")
    fmt.Println("")
    fmt.Println("コマンド:")
    fmt.Println("  run         ブリッジを起動（サーフェス入力→コンソールコマンド、実行キー名→表示）")
    fmt.Println("  ls-devices  利用可能な MIDI 入出力デバイス一覧を表示")
    fmt.Println("  version     バージョン情報を表示")
    fmt.Println("")
    fmt.Println("ヘルプ:")
    fmt.Println("  omnictl help run   起動オプションの詳細ヘルプ")
    fmt.Println("")
    fmt.Println("例:")
    fmt.Println("  omnictl run -host 127.0.0.1 -port 30000 -user Administrator -surface OMNICONSOLE")
    fmt.Println("  omnictl run -config bridge.json -debug")
}

func printVersion() {
    fmt.Printf("omnictl %s (commit %s, built %s)\n", version, commit, date)
}

func runUsage() {
    fmt.Fprintln(os.Stderr, "Usage: omnictl run [options]")
    fmt.Fprintln(os.Stderr, "\n説明: サーフェスのフェーダー/ボタン/エンコーダ操作をコンソールコマンドへ変換し、")
    fmt.Fprintln(os.Stderr, "実行キー名とLED状態をサーフェスへ送り返します。")
    fmt.Fprintln(os.Stderr, "\n主なオプション:")
    fmt.Fprintln(os.Stderr, "  -host          コンソールのホスト")
    fmt.Fprintln(os.Stderr, "  -port          コンソールのtelnetポート")
    fmt.Fprintln(os.Stderr, "  -user          ログインユーザー")
    fmt.Fprintln(os.Stderr, "  -password      ログインパスワード（省略可）")
    fmt.Fprintln(os.Stderr, "  -surface       プライマリサーフェスのポート名（入出力共通、部分一致可）")
    fmt.Fprintln(os.Stderr, "  -surface-in    入力ポート名を個別指定（-surface より優先）")
    fmt.Fprintln(os.Stderr, "  -surface-out   出力ポート名を個別指定（-surface より優先）")
    fmt.Fprintln(os.Stderr, "  -pager-in      ページングサーフェスの入力ポート名")
    fmt.Fprintln(os.Stderr, "  -pager-out     ページ表示エコーの出力ポート名")
    fmt.Fprintln(os.Stderr, "  -fader-pages   フェーダーページ数 (既定4)")
    fmt.Fprintln(os.Stderr, "  -button-pages  ボタンページ数 (既定4)")
    fmt.Fprintln(os.Stderr, "  -ack-delay     フェーダー再同期までの待ち (例: 500ms)")
    fmt.Fprintln(os.Stderr, "  -timeout       コンソール応答の読み取り上限 (例: 2s)")
    fmt.Fprintln(os.Stderr, "  -map-rotary    ロータリー押し込みの上書き（複数可）。例: 1=Group 99（index=コマンド）")
    fmt.Fprintln(os.Stderr, "  -config        JSON設定ファイルパス（host/port/ポート名/mappings などを読込）")
    fmt.Fprintln(os.Stderr, "  -debug         デバッグログを有効化")
    fmt.Fprintln(os.Stderr, "\n注: ネイティブMIDI入出力はビルドタグ 'midi_native' が必要です。")
}

func runLsDevices() {
    ins, err := midi.ListInputs()
    if err != nil {
        log.Printf("MIDI デバイス一覧の取得に失敗: %v", err)
        log.Println("ネイティブMIDI機能はビルドタグ 'midi_native' が必要です。")
        os.Exit(1)
    }
    outs, _ := midi.ListOutputs()

    fmt.Println("入力:")
    if len(ins) == 0 {
        fmt.Println("  (入力デバイスなし)")
    }
    for _, n := range ins {
        fmt.Println("  " + n)
    }
    fmt.Println("出力:")
    if len(outs) == 0 {
        fmt.Println("  (出力デバイスなし)")
    }
    for _, n := range outs {
        fmt.Println("  " + n)
    }
}

func runBridge(args []string) {
    fs := flag.NewFlagSet("run", flag.ExitOnError)

    host := fs.String("host", "127.0.0.1", "コンソールのホスト")
    port := fs.Int("port", 30000, "コンソールのtelnetポート")
    user := fs.String("user", "Administrator", "ログインユーザー")
    password := fs.String("password", "", "ログインパスワード（省略可）")
    surfaceName := fs.String("surface", "OMNICONSOLE", "プライマリサーフェスのポート名（入出力共通）")
    surfaceIn := fs.String("surface-in", "", "入力ポート名の個別指定")
    surfaceOut := fs.String("surface-out", "", "出力ポート名の個別指定")
    pagerIn := fs.String("pager-in", "", "ページングサーフェスの入力ポート名")
    pagerOut := fs.String("pager-out", "", "ページ表示エコーの出力ポート名")
    faderPages := fs.Int("fader-pages", 4, "フェーダーページ数")
    buttonPages := fs.Int("button-pages", 4, "ボタンページ数")
    ackDelay := fs.Duration("ack-delay", bridge.DefaultAckDelay, "フェーダー再同期までの待ち")
    timeout := fs.Duration("timeout", 2*time.Second, "コンソール応答の読み取り上限")
    debug := fs.Bool("debug", false, "デバッグログを有効化")
    mapRotary := multiFlag{}
    fs.Var(&mapRotary, "map-rotary", "ロータリー押し込みの上書き（複数可）。例: 1=Group 99")
    configPath := fs.String("config", "", "JSON設定ファイルへのパス")

    fs.Usage = runUsage
    _ = fs.Parse(args)

    // JSON設定の読み込み（存在すれば）。明示指定したフラグはJSONより優先。
    setFlags := map[string]bool{}
    fs.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
    rotary := map[int]string{}
    if *configPath != "" {
        cfg, err := loadJSONConfig(*configPath)
        if err != nil {
            log.Fatalf("-config の読み込みに失敗しました: %v", err)
        }
        applyFileConfig(cfg, setFlags, fileTargets{
            Host: host, Port: port, User: user, Password: password,
            Surface: surfaceName, SurfaceIn: surfaceIn, SurfaceOut: surfaceOut,
            PagerIn: pagerIn, PagerOut: pagerOut,
            FaderPages: faderPages, ButtonPages: buttonPages,
            AckDelay: ackDelay, Timeout: timeout,
        }, rotary)
    }
    // CLIのロータリー指定はJSONより優先
    for k, v := range parseRotaryMaps(mapRotary) {
        rotary[k] = v
    }

    inName := *surfaceIn
    if inName == "" {
        inName = *surfaceName
    }
    outName := *surfaceOut
    if outName == "" {
        outName = *surfaceName
    }
    if *pagerIn == "" {
        log.Println("-pager-in が未指定のため、ページ切替は受け付けません。")
    }

    if *debug {
        log.Printf("Debug: host=%s:%d user=%s surface=%s/%s pager=%s/%s pages=%d/%d ack=%s timeout=%s",
            *host, *port, *user, inName, outName, *pagerIn, *pagerOut, *faderPages, *buttonPages, ackDelay.String(), timeout.String())
    }

    // コンソール接続（ログイン込み）
    console, err := gma2.Dial(gma2.Options{
        Host:     *host,
        Port:     *port,
        User:     *user,
        Password: *password,
        Timeout:  *timeout,
        Debug:    *debug,
    })
    if err != nil {
        log.Fatal(err)
    }
    defer console.Close()

    // サーフェスのMIDIポートをオープン
    surfIn, surfCh, err := midi.OpenInput(inName)
    if err != nil {
        log.Printf("サーフェス入力のオープンに失敗: %v", err)
        log.Println("ネイティブMIDI機能はビルドタグ 'midi_native' が必要です。")
        os.Exit(1)
    }
    defer surfIn.Close()

    surfOut, err := midi.OpenOutput(outName)
    if err != nil {
        log.Fatalf("サーフェス出力のオープンに失敗: %v", err)
    }
    defer surfOut.Close()

    var pagerCh <-chan midi.Message = make(chan midi.Message) // 未指定なら何も来ない
    if *pagerIn != "" {
        pIn, ch, err := midi.OpenInput(*pagerIn)
        if err != nil {
            log.Fatalf("ページング入力のオープンに失敗: %v", err)
        }
        defer pIn.Close()
        pagerCh = ch
    }

    var pOut midi.Output
    if *pagerOut != "" {
        pOut, err = midi.OpenOutput(*pagerOut)
        if err != nil {
            log.Fatalf("ページング出力のオープンに失敗: %v", err)
        }
        defer pOut.Close()
    }

    b := bridge.New(bridge.Config{
        MaxFaderPage:  *faderPages,
        MaxButtonPage: *buttonPages,
        AckDelay:      *ackDelay,
        Rotary:        rotary,
        Debug:         *debug,
    }, console, surfOut, pOut)

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    log.Printf("ブリッジ開始: surface=%s console=%s:%d", inName, *host, *port)
    if err := b.Run(ctx, surfCh, pagerCh); err != nil && ctx.Err() == nil {
        log.Fatal(err)
    }
    log.Print("停止しました")
}
