package bridge

import (
    "omniconsole/internal/gma2"
    "omniconsole/internal/state"
    "omniconsole/internal/surface"
)

// 属性名はコンソール側のアトリビュート定義に合わせる。
const (
    attrPan   = "Pan"
    attrTilt  = "Tilt"
    attrZoom  = "ZOOM"
    attrGobo  = "GOBO1"
    attrPrism = "PRISMA1"

    // ゴボ/プリズムのホイールを持つ灯体のセレクション
    wheelFixtures = "fixture 301 thru 306"

    // ボタンページの実行キーは 101 から始まる番号帯に載っている
    execButtonOffset = 100
)

// defaultRotary はロータリー押し込み→セレクションコマンドの既定マップ。
// JSON設定の mappings で上書きできる。
var defaultRotary = [surface.NumChannels]string{
    "Fixture 101 thru 199",
    "Group 15",
    "Group 8",
    "Group 2",
    "Group 10",
    "Fixture 380 thru 381",
    "Group 1",
    "Fixture 1",
}

// Translator はサーフェスイベントをコンソールコマンド列へ写像する。
// フェーダーの送信済み値による重複排除と、エンコーダ用アキュムレータを持つ。
type Translator struct {
    store    *state.Store
    gobo     *state.Accumulator
    prism    *state.Accumulator
    lastSent [surface.NumChannels]int
    rotary   [surface.NumChannels]string
}

// NewTranslator は既定のアキュムレータ範囲（ゴボ0-100、プリズム40-100）で作る。
// rotary の指定があるインデックスだけ既定マップを上書きする。
func NewTranslator(store *state.Store, rotary map[int]string) *Translator {
    t := &Translator{
        store:  store,
        gobo:   state.NewAccumulator(0, 0, 100),
        prism:  state.NewAccumulator(40, 40, 100),
        rotary: defaultRotary,
    }
    for i := range t.lastSent {
        t.lastSent[i] = -1
    }
    for i, cmd := range rotary {
        if i >= 0 && i < surface.NumChannels && cmd != "" {
            t.rotary[i] = cmd
        }
    }
    return t
}

// FaderMove はフェーダー位置コマンドを返す。
// 直前に送った値と同じパーセントなら何も送らない。
func (t *Translator) FaderMove(page, channel, percent int) []string {
    if t.lastSent[channel] == percent {
        return nil
    }
    t.lastSent[channel] = percent
    return []string{gma2.FaderAt(page, channel+1, percent)}
}

// Button はノート番号の帯域ごとの意味づけに従ってコマンドを組み立てる。
// Off/Onボタンは LEDモードも更新する。フラッシュボタンはモードを変えない。
func (t *Translator) Button(faderPage, buttonPage, note int, pressed bool) []string {
    switch {
    case note < surface.NoteOnBase: // Offトリガー
        if !pressed {
            return nil
        }
        ch := note - surface.NoteOffBase
        // 値のないチャネルへのOffは何もしない
        if !t.store.SetLedMode(faderPage, ch, state.LedOff) {
            return nil
        }
        return []string{gma2.Off(faderPage, ch+1)}

    case note < surface.NoteFlashBase: // Onトリガー
        if !pressed {
            return nil
        }
        ch := note - surface.NoteOnBase
        t.store.SetLedMode(faderPage, ch, state.LedOn)
        return []string{gma2.On(faderPage, ch+1)}

    case note < surface.NoteExecBase: // フラッシュトリガー
        ch := note - surface.NoteFlashBase
        if t.store.IsTemp(faderPage, ch) {
            // 一時扱い: 押している間だけ完全に点ける
            if pressed {
                return []string{gma2.Temp(faderPage, ch+1)}
            }
            return []string{gma2.Off(faderPage, ch+1)}
        }
        if pressed {
            return []string{gma2.Flash(faderPage, ch+1)}
        }
        return []string{gma2.FlashOff(faderPage, ch+1)}

    case note < surface.NoteRotaryBase: // ボタンページ実行キー
        exec := execButtonOffset + (note - surface.NoteExecBase) + 1
        if pressed {
            return []string{gma2.On(buttonPage, exec)}
        }
        return []string{gma2.Off(buttonPage, exec)}

    case note < surface.NoteEnd: // ロータリー押し込み
        if !pressed {
            return nil
        }
        cmd := t.rotary[note-surface.NoteRotaryBase]
        if cmd == "" {
            return nil
        }
        return []string{gma2.Clear, cmd}
    }
    return nil
}

// Encoder は相対エンコーダの回転をコマンドへ写像する。
// Pan/Tilt/Zoom は相対指定をそのまま流し、ゴボ/プリズムはアキュムレータを
// 動かしてから セレクション解除 → 灯体選択 → 絶対値指定 の3コマンドを流す。
func (t *Translator) Encoder(control, delta int) []string {
    switch control {
    case surface.CCPan:
        return []string{gma2.AttributeRelative(attrPan, delta)}
    case surface.CCTilt:
        return []string{gma2.AttributeRelative(attrTilt, delta)}
    case surface.CCZoom:
        return []string{gma2.AttributeRelative(attrZoom, delta)}
    case surface.CCGobo:
        v := t.gobo.Add(delta)
        return []string{gma2.Clear, wheelFixtures, gma2.AttributeAt(attrGobo, v)}
    case surface.CCPrism:
        v := t.prism.Add(delta)
        return []string{gma2.Clear, wheelFixtures, gma2.AttributeAt(attrPrism, v)}
    }
    return nil
}
