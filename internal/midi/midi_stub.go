//go:build !midi_native

package midi

import "errors"

var errNoNative = errors.New("native MIDI driver is not included in this build (build with -tags midi_native)")

// OpenInput は指定デバイスを開き、生メッセージのチャネルを返す。
// デフォルトビルド（midi_nativeタグなし）では未対応。
func OpenInput(deviceName string) (Input, <-chan Message, error) {
    return nil, nil, errNoNative
}

// OpenOutput は指定デバイスを出力用に開く。
// デフォルトビルド（midi_nativeタグなし）では未対応。
func OpenOutput(deviceName string) (Output, error) {
    return nil, errNoNative
}

// ListInputs は利用可能なMIDI入力デバイス名を返す。
func ListInputs() ([]string, error) {
    return nil, errNoNative
}

// ListOutputs は利用可能なMIDI出力デバイス名を返す。
func ListOutputs() ([]string, error) {
    return nil, errNoNative
}
