package bridge

import (
    "sync"
    "time"

    "omniconsole/internal/surface"
)

// DefaultAckDelay はフェーダーが動き止まってから位置を再送するまでの待ち。
const DefaultAckDelay = 500 * time.Millisecond

// AckDebouncer はチャネルごとに1本だけ生きる再送タイマーを管理する。
// Schedule は常に既存タイマーを取り消して置き換える（同一チャネルに
// 2本のタイマーが同時に生きることはない）。モーターフェーダーは駆動後に
// オーバーシュートして落ち着くので、発火は動きが止まった後の一度だけ。
type AckDebouncer struct {
    mu      sync.Mutex
    delay   time.Duration
    fire    func(channel int)
    timers  [surface.NumChannels]*time.Timer
    gen     [surface.NumChannels]uint64
    stopped bool
}

// NewAckDebouncer を delay<=0 で呼ぶと DefaultAckDelay になる。
// fire はタイマーゴルーチンから呼ばれるため、呼び出し先で直列化すること
// （bridge はイベントキュー投入で受ける）。
func NewAckDebouncer(delay time.Duration, fire func(channel int)) *AckDebouncer {
    if delay <= 0 {
        delay = DefaultAckDelay
    }
    return &AckDebouncer{delay: delay, fire: fire}
}

// Schedule は指定チャネルの再送を予約し直す。
func (d *AckDebouncer) Schedule(channel int) {
    if channel < 0 || channel >= surface.NumChannels {
        return
    }
    d.mu.Lock()
    defer d.mu.Unlock()
    if d.stopped {
        return
    }
    if t := d.timers[channel]; t != nil {
        t.Stop()
    }
    d.gen[channel]++
    g := d.gen[channel]
    d.timers[channel] = time.AfterFunc(d.delay, func() {
        d.mu.Lock()
        // 置き換え済み・停止済みのタイマーが発火しても何もしない
        if d.stopped || d.gen[channel] != g {
            d.mu.Unlock()
            return
        }
        d.timers[channel] = nil
        d.mu.Unlock()
        d.fire(channel)
    })
}

// CancelAll は全チャネルの予約を取り消す。以後の Schedule も無効。
func (d *AckDebouncer) CancelAll() {
    d.mu.Lock()
    defer d.mu.Unlock()
    d.stopped = true
    for i, t := range d.timers {
        if t != nil {
            t.Stop()
            d.timers[i] = nil
        }
    }
}
