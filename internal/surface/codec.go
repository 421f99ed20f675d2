// Package surface は Mackie 系コントロールサーフェスのワイヤプロトコルを
// 型付きイベントと送出メッセージに相互変換する。
package surface

import "math"

const (
    NumChannels = 8

    // MIDIステータス（上位ニブル）
    StatusNoteOff       = 0x80
    StatusNoteOn        = 0x90
    StatusControlChange = 0xB0
    StatusPitchBend     = 0xE0
    StatusCodeMask      = 0xF0
    ChannelMask         = 0x0F

    // フェーダー絶対位置は14bit（LSB, MSBの7bitペア）
    FaderMax = 16383

    // ノート番号帯域ごとのボタン意味づけ
    NoteOffBase    = 0  // 0-7: Offトリガー
    NoteOnBase     = 8  // 8-15: Onトリガー
    NoteFlashBase  = 16 // 16-23: フラッシュトリガー
    NoteExecBase   = 24 // 24-31: ボタンページ実行キー
    NoteRotaryBase = 32 // 32-39: ロータリー押し込みマクロ
    NoteEnd        = 40

    // 相対エンコーダのCC番号
    CCPan   = 16
    CCTilt  = 17
    CCZoom  = 20
    CCGobo  = 22
    CCPrism = 23

    // スクリブル表示は1行・1チャネルあたり7文字固定
    LabelWidth = 7
)

// displayPrefix はスクリブル表示書き込みSysExの固定ヘッダ。
var displayPrefix = []byte{0xF0, 0x00, 0x00, 0x66, 0x15, 0x12}

const displayTerminator = 0xF7

// Kind はデコード結果のイベント種別。
type Kind int

const (
    Unknown Kind = iota
    FaderMove
    ButtonEvent
    EncoderTurn
)

// Event は正規化されたサーフェスイベント。Kind に応じて有効なフィールドが決まる。
type Event struct {
    Kind Kind

    // FaderMove
    Channel int // 0-7
    Value   int // 14bit生値 0-16383
    Percent int // 0-100（丸め）

    // ButtonEvent
    Note    int
    Pressed bool

    // EncoderTurn
    Control int // CC番号
    Delta   int // 符号付き変化量（オフセット符号方式をデコード済み）
}

// Decode は生のMIDIメッセージ1件をサーフェスイベントへ変換する。
// 壊れた/短すぎる入力は Unknown になる。panic はしない。
func Decode(b []byte) Event {
    if len(b) < 3 {
        return Event{}
    }
    status := b[0] & StatusCodeMask
    ch := int(b[0] & ChannelMask)
    d1 := int(b[1] & 0x7F)
    d2 := int(b[2] & 0x7F)

    switch status {
    case StatusPitchBend:
        if ch >= NumChannels {
            return Event{}
        }
        v := d2<<7 | d1
        return Event{Kind: FaderMove, Channel: ch, Value: v, Percent: ValueToPercent(v)}

    case StatusNoteOn:
        // ベロシティ0のNoteOnはリリース扱い
        return Event{Kind: ButtonEvent, Note: d1, Pressed: d2 > 0}

    case StatusNoteOff:
        return Event{Kind: ButtonEvent, Note: d1, Pressed: false}

    case StatusControlChange:
        return Event{Kind: EncoderTurn, Control: d1, Delta: DecodeRelative(d2)}
    }
    return Event{}
}

// DecodeRelative はオフセット符号方式の相対値をデコードする。
// 0-63 は +value、64-127 は -(value-64)。
func DecodeRelative(v int) int {
    if v < 64 {
        return v
    }
    return -(v - 64)
}

// ValueToPercent は14bit生値を0-100に丸める。
func ValueToPercent(v int) int {
    return int(math.Round(float64(v) * 100 / FaderMax))
}

// PercentToValue は0-100を14bit生値へ戻す。
func PercentToValue(p int) int {
    if p < 0 {
        p = 0
    }
    if p > 100 {
        p = 100
    }
    return int(math.Round(float64(p) * FaderMax / 100))
}

// EncodeFader はモーターフェーダーを14bit絶対位置へ駆動するメッセージを組み立てる。
func EncodeFader(channel, value int) []byte {
    if value < 0 {
        value = 0
    }
    if value > FaderMax {
        value = FaderMax
    }
    return []byte{byte(StatusPitchBend + channel), byte(value & 0x7F), byte(value >> 7)}
}

// EncodeLED はノートLEDの点灯/消灯メッセージを組み立てる（ベロシティ127/0）。
func EncodeLED(note int, on bool) []byte {
    v := byte(0)
    if on {
        v = 127
    }
    return []byte{StatusNoteOn, byte(note), v}
}

// EncodeDisplay はチャネルのスクリブル表示1行分の書き込みSysExを組み立てる。
// row 0 が上段、row 1 が下段。テキストは7バイトに揃えられる。
func EncodeDisplay(channel, row int, text string) []byte {
    offset := channel * LabelWidth
    if row != 0 {
        offset += NumChannels * LabelWidth
    }
    msg := make([]byte, 0, len(displayPrefix)+1+LabelWidth+1)
    msg = append(msg, displayPrefix...)
    msg = append(msg, byte(offset))
    msg = append(msg, []byte(FitLabel(text))...)
    msg = append(msg, displayTerminator)
    return msg
}
