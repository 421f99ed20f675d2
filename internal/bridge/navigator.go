package bridge

// ページング用セカンダリサーフェスのプロトコル。
// 1つの固定CC番号に方向ごとの固定値が載ってくる。
// 同じCC番号に新しいページ番号を載せて返すと、そのままページ表示になる。
const (
    PagerControl = 127

    PagerFaderUp    = 127
    PagerFaderDown  = 126
    PagerButtonUp   = 125
    PagerButtonDown = 124
)

// Navigator はフェーダーページとボタンページの現在位置を持つ。
// 遷移は端で止まる（上限・下限でのさらなる移動は無視）。
type Navigator struct {
    faderPage  int
    buttonPage int
    maxFader   int
    maxButton  int
}

func NewNavigator(maxFader, maxButton int) *Navigator {
    if maxFader < 1 {
        maxFader = 1
    }
    if maxButton < 1 {
        maxButton = 1
    }
    return &Navigator{faderPage: 1, buttonPage: 1, maxFader: maxFader, maxButton: maxButton}
}

func (n *Navigator) FaderPage() int  { return n.faderPage }
func (n *Navigator) ButtonPage() int { return n.buttonPage }

// FaderUp は新しいページ番号と、実際に動いたかどうかを返す。
func (n *Navigator) FaderUp() (int, bool) {
    if n.faderPage >= n.maxFader {
        return n.faderPage, false
    }
    n.faderPage++
    return n.faderPage, true
}

func (n *Navigator) FaderDown() (int, bool) {
    if n.faderPage <= 1 {
        return n.faderPage, false
    }
    n.faderPage--
    return n.faderPage, true
}

func (n *Navigator) ButtonUp() (int, bool) {
    if n.buttonPage >= n.maxButton {
        return n.buttonPage, false
    }
    n.buttonPage++
    return n.buttonPage, true
}

func (n *Navigator) ButtonDown() (int, bool) {
    if n.buttonPage <= 1 {
        return n.buttonPage, false
    }
    n.buttonPage--
    return n.buttonPage, true
}
