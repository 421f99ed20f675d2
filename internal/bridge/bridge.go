// Package bridge はコントロールサーフェス・ページングサーフェス・コンソールの
// 3つのイベント源を1本のループに束ね、全ての共有状態をそのループだけが触る。
package bridge

import (
    "context"
    "errors"
    "log"
    "time"

    "omniconsole/internal/gma2"
    "omniconsole/internal/midi"
    "omniconsole/internal/state"
    "omniconsole/internal/surface"
)

// Console はコンソール接続に要求する操作。gma2.Client が実装する。
type Console interface {
    Send(command string) (string, error)
    Executors(page int) (map[int]string, error)
}

// Config はブリッジの動作パラメータ。
type Config struct {
    MaxFaderPage  int
    MaxButtonPage int
    AckDelay      time.Duration
    Rotary        map[int]string // ロータリー押し込みのセレクション上書き
    Debug         bool
}

// Bridge は1ゴルーチンのイベントループとして動く。
type Bridge struct {
    cfg     Config
    console Console
    surface midi.Output // プライマリサーフェスへのフィードバック
    pager   midi.Output // ページ表示エコー

    store *state.Store
    tr    *Translator
    nav   *Navigator
    deb   *AckDebouncer

    // チャネルごとの最後の14bitワイヤ値。再送とページ切替の静かな駆動に使う。
    wire  [surface.NumChannels]int
    ackCh chan int
}

// New はブリッジを組み立てる。ページ状態は全範囲分をここで確保する。
func New(cfg Config, console Console, surfaceOut, pagerOut midi.Output) *Bridge {
    if cfg.MaxFaderPage < 1 {
        cfg.MaxFaderPage = 1
    }
    if cfg.MaxButtonPage < 1 {
        cfg.MaxButtonPage = 1
    }
    b := &Bridge{
        cfg:     cfg,
        console: console,
        surface: surfaceOut,
        pager:   pagerOut,
        store:   state.NewStore(cfg.MaxFaderPage),
        nav:     NewNavigator(cfg.MaxFaderPage, cfg.MaxButtonPage),
        ackCh:   make(chan int, surface.NumChannels),
    }
    b.tr = NewTranslator(b.store, cfg.Rotary)
    // タイマーゴルーチンから状態を触らず、ループへ投げ直す
    b.deb = NewAckDebouncer(cfg.AckDelay, func(ch int) {
        select {
        case b.ackCh <- ch:
        default:
        }
    })
    return b
}

// Run は初期同期を行い、キャンセルされるまでイベントを処理する。
func (b *Bridge) Run(ctx context.Context, surfaceIn, pagerIn <-chan midi.Message) error {
    defer b.deb.CancelAll()

    if err := b.startup(); err != nil {
        return err
    }
    log.Print("ブリッジ稼働中。サーフェスイベントを待機します")

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case msg, ok := <-surfaceIn:
            if !ok {
                return errors.New("bridge: surface input closed")
            }
            b.handleSurface(msg)
        case msg, ok := <-pagerIn:
            if !ok {
                return errors.New("bridge: pager input closed")
            }
            b.handlePager(msg)
        case ch := <-b.ackCh:
            b.resyncFader(ch)
        }
    }
}

// startup はコンソールとサーフェスを既知状態（ページ1・全フェーダー0）に揃える。
func (b *Bridge) startup() error {
    b.sendConsole(gma2.FaderPage(1))
    for page := 1; page <= b.cfg.MaxFaderPage; page++ {
        for ch := 0; ch < surface.NumChannels; ch++ {
            b.sendConsole(gma2.FaderAt(page, ch+1, 0))
        }
    }
    for ch := 0; ch < surface.NumChannels; ch++ {
        b.wire[ch] = 0
        b.sendSurface(surface.EncodeFader(ch, 0))
    }
    b.refreshLabels()
    b.sendPagerIndicator(1)
    return nil
}

func (b *Bridge) handleSurface(msg midi.Message) {
    ev := surface.Decode(msg.Data)
    if b.cfg.Debug && ev.Kind != surface.Unknown {
        log.Printf("サーフェス: %+v", ev)
    }
    switch ev.Kind {
    case surface.FaderMove:
        b.handleFader(ev)
    case surface.ButtonEvent:
        b.handleButton(ev)
    case surface.EncoderTurn:
        b.handleEncoder(ev)
    default:
        // 壊れた入力は状態を変えずに捨てる
    }
}

func (b *Bridge) handleFader(ev surface.Event) {
    page := b.nav.FaderPage()
    b.store.SetFaderValue(page, ev.Channel, ev.Percent)
    b.wire[ev.Channel] = ev.Value

    b.EmitFeedback(ev.Channel, state.ComputeLedFeedback(b.store.Channel(page, ev.Channel)))
    for _, cmd := range b.tr.FaderMove(page, ev.Channel, ev.Percent) {
        b.sendConsole(cmd)
    }
    // 動きが落ち着いたら権威値で物理位置を揃え直す
    b.deb.Schedule(ev.Channel)
}

func (b *Bridge) handleButton(ev surface.Event) {
    cmds := b.tr.Button(b.nav.FaderPage(), b.nav.ButtonPage(), ev.Note, ev.Pressed)
    for _, cmd := range cmds {
        b.sendConsole(cmd)
    }

    switch {
    case ev.Note < surface.NoteFlashBase:
        // Off/OnボタンはLEDモードを動かすので導出し直す
        ch := ev.Note % surface.NumChannels
        b.EmitFeedback(ch, state.ComputeLedFeedback(b.store.Channel(b.nav.FaderPage(), ch)))
    case ev.Note < surface.NoteExecBase:
        // フラッシュは押下中だけ点け、離したら格納状態に戻す
        ch := ev.Note - surface.NoteFlashBase
        if ev.Pressed {
            b.sendSurface(surface.EncodeLED(surface.NoteFlashBase+ch, true))
        } else {
            b.EmitFeedback(ch, state.ComputeLedFeedback(b.store.Channel(b.nav.FaderPage(), ch)))
        }
    }
}

func (b *Bridge) handleEncoder(ev surface.Event) {
    for _, cmd := range b.tr.Encoder(ev.Control, ev.Delta) {
        b.sendConsole(cmd)
    }
}

func (b *Bridge) handlePager(msg midi.Message) {
    d := msg.Data
    if len(d) < 3 || d[0]&surface.StatusCodeMask != surface.StatusControlChange {
        return
    }
    if int(d[1]&0x7F) != PagerControl {
        return
    }
    switch int(d[2] & 0x7F) {
    case PagerFaderUp:
        if page, ok := b.nav.FaderUp(); ok {
            b.faderPageTransition(page)
        }
    case PagerFaderDown:
        if page, ok := b.nav.FaderDown(); ok {
            b.faderPageTransition(page)
        }
    case PagerButtonUp:
        if page, ok := b.nav.ButtonUp(); ok {
            b.buttonPageTransition(page)
        }
    case PagerButtonDown:
        if page, ok := b.nav.ButtonDown(); ok {
            b.buttonPageTransition(page)
        }
    }
}

func (b *Bridge) faderPageTransition(page int) {
    log.Printf("フェーダーページ切替: %d", page)
    b.sendConsole(gma2.FaderPage(page))
    b.afterPageTransition(page)
}

func (b *Bridge) buttonPageTransition(page int) {
    log.Printf("ボタンページ切替: %d", page)
    b.sendConsole(gma2.ButtonPage(page))
    b.afterPageTransition(page)
}

// afterPageTransition はどちらのページ種別でも同じ再同期を行う:
// 表示名の取り直し → LED再適用 → フェーダーの静かな駆動 → ページ表示エコー。
func (b *Bridge) afterPageTransition(page int) {
    b.refreshLabels()
    state.ReapplyForPage(b.store, b.nav.FaderPage(), b)
    b.silentApplyFaders()
    b.sendPagerIndicator(page)
}

// refreshLabels は上段にフェーダーページの実行キー名(1..8)、
// 下段にボタンページの実行キー名(101..108)を書き込む。
func (b *Bridge) refreshLabels() {
    names, err := b.console.Executors(b.nav.FaderPage())
    if err != nil && !errors.Is(err, gma2.ErrConsole) {
        log.Printf("エグゼキュータ一覧の取得に失敗: %v", err)
        names = map[int]string{}
    }
    for ch := 0; ch < surface.NumChannels; ch++ {
        b.sendSurface(surface.EncodeDisplay(ch, 0, names[ch+1]))
    }

    buttons, err := b.console.Executors(b.nav.ButtonPage())
    if err != nil && !errors.Is(err, gma2.ErrConsole) {
        log.Printf("ボタン実行キー一覧の取得に失敗: %v", err)
        buttons = map[int]string{}
    }
    for ch := 0; ch < surface.NumChannels; ch++ {
        b.sendSurface(surface.EncodeDisplay(ch, 1, buttons[execButtonOffset+ch+1]))
    }
}

// silentApplyFaders はページに格納された値で物理フェーダーを駆動する。
// AckDebouncer は通さない（プログラム駆動の動きで再送タイマーを起こさない）。
func (b *Bridge) silentApplyFaders() {
    page := b.nav.FaderPage()
    for ch := 0; ch < surface.NumChannels; ch++ {
        v := surface.PercentToValue(b.store.Channel(page, ch).Value)
        b.wire[ch] = v
        b.sendSurface(surface.EncodeFader(ch, v))
    }
}

// resyncFader は AckDebouncer の発火で呼ばれ、最後に観測したワイヤ値を
// そのまま物理フェーダーへ送り返す。
func (b *Bridge) resyncFader(ch int) {
    if b.cfg.Debug {
        log.Printf("フェーダー再同期: ch=%d value=%d", ch, b.wire[ch])
    }
    b.sendSurface(surface.EncodeFader(ch, b.wire[ch]))
}

// EmitFeedback は state.FeedbackSink の実装。
// Main=Offボタン側LED、Secondary=Onボタン側LED、Flash=フラッシュLED。
func (b *Bridge) EmitFeedback(ch int, fb state.Feedback) {
    b.sendSurface(surface.EncodeLED(surface.NoteOffBase+ch, fb.Main))
    b.sendSurface(surface.EncodeLED(surface.NoteOnBase+ch, fb.Secondary))
    b.sendSurface(surface.EncodeLED(surface.NoteFlashBase+ch, fb.Flash))
}

func (b *Bridge) sendPagerIndicator(page int) {
    if b.pager == nil {
        return
    }
    if err := b.pager.Send([]byte{surface.StatusControlChange, PagerControl, byte(page)}); err != nil {
        log.Printf("ページ表示の送信に失敗: %v", err)
    }
}

func (b *Bridge) sendSurface(msg []byte) {
    if b.surface == nil {
        return
    }
    if err := b.surface.Send(msg); err != nil {
        log.Printf("サーフェスへの送信に失敗: %v", err)
    }
}

// sendConsole はコマンドを1本ずつ直列に流す。コンソールのエラー応答は
// ログに残すだけで、適用済みのローカル状態は巻き戻さない。
func (b *Bridge) sendConsole(cmd string) {
    if _, err := b.console.Send(cmd); err != nil {
        if errors.Is(err, gma2.ErrConsole) {
            return // Send側でログ済み
        }
        log.Printf("コンソールコマンド失敗: cmd=%q err=%v", cmd, err)
    }
}
