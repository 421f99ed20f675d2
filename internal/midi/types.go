package midi

import "time"

// Message は入力ポートから受信した生のMIDIメッセージ1件。
// 解釈（ピッチベンド/ノート/CC/SysEx の弁別）は surface パッケージ側で行う。
type Message struct {
    Data []byte
    Time time.Time
}

// Input はオープン済みのMIDI入力デバイスを表す。
type Input interface {
    Close() error
}

// Output はオープン済みのMIDI出力デバイスを表す。
// Send は1メッセージ分の生バイト列（SysEx含む）をそのまま送出する。
type Output interface {
    Send(b []byte) error
    Close() error
}
