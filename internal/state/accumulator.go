package state

// Accumulator は相対エンコーダで駆動されるスカラー属性値。
// ページには属さず、プロセスの生存期間だけ保持される。
type Accumulator struct {
    value int
    min   int
    max   int
}

// NewAccumulator は [min,max] に張り付くアキュムレータを作る。
// 初期値も範囲内に丸められる（プリズムのように下限が0でない属性がある）。
func NewAccumulator(initial, min, max int) *Accumulator {
    a := &Accumulator{min: min, max: max}
    a.value = a.clamp(initial)
    return a
}

func (a *Accumulator) clamp(v int) int {
    if v < a.min {
        return a.min
    }
    if v > a.max {
        return a.max
    }
    return v
}

// Add は変化量を加えて丸め、新しい値を返す。
func (a *Accumulator) Add(delta int) int {
    a.value = a.clamp(a.value + delta)
    return a.value
}

// Value は現在値を返す。
func (a *Accumulator) Value() int { return a.value }
