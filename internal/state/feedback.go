package state

// Feedback は1チャネル分のLED出力（Offボタン/Onボタン/フラッシュ）。
type Feedback struct {
    Main      bool // Offボタン側LED
    Secondary bool // Onボタン側LED
    Flash     bool // フラッシュボタンLED
}

// ComputeLedFeedback は格納状態だけからLED出力を導出する純関数。
// 優先順位: LedOff > LedOn > (値あり かつ 非抑制)。
func ComputeLedFeedback(cs ChannelState) Feedback {
    switch cs.LedMode {
    case LedOff:
        return Feedback{Main: true}
    case LedOn:
        return Feedback{Secondary: true, Flash: true}
    }
    // LedAuto / LedNone は値とフラッシュ抑制で決まる
    if cs.Value > 0 && !cs.FlashSuppressed {
        return Feedback{Secondary: true, Flash: true}
    }
    return Feedback{}
}

// FeedbackSink はLED出力の送出先。bridge が実装する。
type FeedbackSink interface {
    EmitFeedback(channel int, fb Feedback)
}

// ReapplyForPage は指定ページの全8チャネル分のLED出力を再計算して送出する。
// ページ遷移のたびに呼ばれる。
func ReapplyForPage(s *Store, page int, sink FeedbackSink) {
    for ch := 0; ch < NumChannels; ch++ {
        sink.EmitFeedback(ch, ComputeLedFeedback(s.Channel(page, ch)))
    }
}
