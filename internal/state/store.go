// Package state はページ×チャネルのフェーダー/LED状態と、
// エンコーダ用アキュムレータを保持する。共有グローバルは持たず、
// 呼び出し側（bridgeのイベントループ）が唯一の書き手になる。
package state

const NumChannels = 8

// LedMode はチャネルのLEDモード。ボタン操作かページ再適用でのみ変わる。
type LedMode int

const (
    LedNone LedMode = iota
    LedOn
    LedOff
    LedAuto
)

// ChannelState は1ページ・1チャネル分の状態。
type ChannelState struct {
    Value           int // 0-100
    LedMode         LedMode
    FlashSuppressed bool
}

// Store は全ページ分のチャネル状態を所有する。
// ページ配列は起動時に全範囲分を確保し、プロセス終了まで生きる。
type Store struct {
    pages [][NumChannels]ChannelState
}

// NewStore は1..maxPage のページ範囲分の状態を確保する。
func NewStore(maxPage int) *Store {
    if maxPage < 1 {
        maxPage = 1
    }
    return &Store{pages: make([][NumChannels]ChannelState, maxPage)}
}

func (s *Store) MaxPage() int { return len(s.pages) }

func clampPercent(v int) int {
    if v < 0 {
        return 0
    }
    if v > 100 {
        return 100
    }
    return v
}

func (s *Store) at(page, channel int) *ChannelState {
    if page < 1 {
        page = 1
    }
    if page > len(s.pages) {
        page = len(s.pages)
    }
    if channel < 0 {
        channel = 0
    }
    if channel >= NumChannels {
        channel = NumChannels - 1
    }
    return &s.pages[page-1][channel]
}

// Channel は(ページ, チャネル)の現在状態を返す。
func (s *Store) Channel(page, channel int) ChannelState {
    return *s.at(page, channel)
}

// SetFaderValue は値を0-100に丸めて格納する。
// >0→0 の遷移で FlashSuppressed を立て（既に暗いチャネルでのフラッシュ
// 再点灯を防ぐ）、0→>0 の遷移で解除する。
func (s *Store) SetFaderValue(page, channel, value int) {
    cs := s.at(page, channel)
    value = clampPercent(value)
    switch {
    case cs.Value > 0 && value == 0:
        cs.FlashSuppressed = true
    case cs.Value == 0 && value > 0:
        cs.FlashSuppressed = false
    }
    cs.Value = value
}

// SetLedMode はLEDモードを明示的に切り替える。
// LedOff は現在値が0より大きいときだけ適用される（値のないチャネルへの
// Off操作は何もしない）。LedOn は常に適用される。
func (s *Store) SetLedMode(page, channel int, mode LedMode) bool {
    cs := s.at(page, channel)
    if mode == LedOff && cs.Value <= 0 {
        return false
    }
    cs.LedMode = mode
    return true
}

// IsTemp はフラッシュボタンを一時On/Offとして扱うべきかを返す。
// LEDモードが None か Off のときが一時扱い。
func (s *Store) IsTemp(page, channel int) bool {
    m := s.at(page, channel).LedMode
    return m == LedNone || m == LedOff
}
