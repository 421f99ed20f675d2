//go:build midi_native

package midi

import (
    "fmt"
    "strings"
    "sync"
    "time"

    retry "github.com/avast/retry-go/v4"
    "gitlab.com/gomidi/midi"
    "gitlab.com/gomidi/rtmididrv"
)

// openAttempts はポートオープンの再試行回数。
// 他プロセスがポートを掴んでいる直後などに一時的に失敗することがある。
const openAttempts = 3

// inputWrap は rtmididrv のポート/ドライバをまとめて Close する薄いラッパです。
type inputWrap struct {
    drv  *rtmididrv.Driver
    in   midi.In
    once sync.Once
}

// outputWrap は出力ポート側の同等のラッパ。
type outputWrap struct {
    drv  *rtmididrv.Driver
    out  midi.Out
    once sync.Once
}

// matchPort は完全一致 → 部分一致の順でポート名を照合する。
// ループバック/シミュレータのポート名でも実機名でも同じ指定方法が使えるようにする。
func matchPort[T fmt.Stringer](ports []T, name string) (T, bool) {
    var zero T
    for _, p := range ports {
        if p.String() == name {
            return p, true
        }
    }
    for _, p := range ports {
        if strings.Contains(p.String(), name) {
            return p, true
        }
    }
    return zero, false
}

// OpenInput は指定名の入力ポートを開き、生メッセージをチャネルで返す。
func OpenInput(deviceName string) (Input, <-chan Message, error) {
    drv, err := rtmididrv.New()
    if err != nil {
        return nil, nil, fmt.Errorf("rtmididrv.New: %w", err)
    }
    ins, err := drv.Ins()
    if err != nil {
        _ = drv.Close()
        return nil, nil, fmt.Errorf("MIDI入力列挙に失敗: %w", err)
    }
    in, ok := matchPort(ins, deviceName)
    if !ok {
        _ = drv.Close()
        return nil, nil, fmt.Errorf("MIDI入力デバイスが見つかりません: %s", deviceName)
    }
    if err := retry.Do(in.Open, retry.Attempts(openAttempts), retry.LastErrorOnly(true)); err != nil {
        _ = drv.Close()
        return nil, nil, fmt.Errorf("入力オープン失敗: %w", err)
    }

    msgCh := make(chan Message, 128)

    // 生バイトのまま流す。リアルタイム/システムコモンは無視。
    if err := in.SetListener(func(bt []byte, _ int64) {
        if len(bt) == 0 || bt[0] >= 0xF0 {
            return
        }
        cp := make([]byte, len(bt))
        copy(cp, bt)
        select {
        case msgCh <- Message{Data: cp, Time: time.Now()}:
        default:
        }
    }); err != nil {
        _ = in.Close()
        _ = drv.Close()
        return nil, nil, fmt.Errorf("リスナ設定失敗: %w", err)
    }

    return &inputWrap{drv: drv, in: in}, msgCh, nil
}

func (w *inputWrap) Close() error {
    var err error
    w.once.Do(func() {
        // best-effort 停止
        _ = w.in.Close()
        err = w.drv.Close()
    })
    return err
}

// OpenOutput は指定名の出力ポートを開く。
// モーターフェーダー・LED・スクリブル表示へのフィードバック送出に使う。
func OpenOutput(deviceName string) (Output, error) {
    drv, err := rtmididrv.New()
    if err != nil {
        return nil, fmt.Errorf("rtmididrv.New: %w", err)
    }
    outs, err := drv.Outs()
    if err != nil {
        _ = drv.Close()
        return nil, fmt.Errorf("MIDI出力列挙に失敗: %w", err)
    }
    out, ok := matchPort(outs, deviceName)
    if !ok {
        _ = drv.Close()
        return nil, fmt.Errorf("MIDI出力デバイスが見つかりません: %s", deviceName)
    }
    if err := retry.Do(out.Open, retry.Attempts(openAttempts), retry.LastErrorOnly(true)); err != nil {
        _ = drv.Close()
        return nil, fmt.Errorf("出力オープン失敗: %w", err)
    }
    return &outputWrap{drv: drv, out: out}, nil
}

func (w *outputWrap) Send(b []byte) error {
    return w.out.Send(b)
}

func (w *outputWrap) Close() error {
    var err error
    w.once.Do(func() {
        _ = w.out.Close()
        err = w.drv.Close()
    })
    return err
}

// ListInputs は利用可能な入力デバイスの名称一覧を返す。
func ListInputs() ([]string, error) {
    drv, err := rtmididrv.New()
    if err != nil {
        return nil, err
    }
    defer drv.Close()
    ins, err := drv.Ins()
    if err != nil {
        return nil, err
    }
    names := make([]string, 0, len(ins))
    for _, i := range ins {
        names = append(names, i.String())
    }
    return names, nil
}

// ListOutputs は利用可能な出力デバイスの名称一覧を返す。
func ListOutputs() ([]string, error) {
    drv, err := rtmididrv.New()
    if err != nil {
        return nil, err
    }
    defer drv.Close()
    outs, err := drv.Outs()
    if err != nil {
        return nil, err
    }
    names := make([]string, 0, len(outs))
    for _, o := range outs {
        names = append(names, o.String())
    }
    return names, nil
}
