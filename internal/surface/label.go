package surface

// FitLabel はスクリブル表示用にテキストを7バイトちょうどへ整える。
// 非印字バイトは空白に置換し、長すぎれば切り詰め、短ければ右側を空白で埋める。
func FitLabel(s string) string {
    out := make([]byte, LabelWidth)
    b := []byte(s)
    for i := 0; i < LabelWidth; i++ {
        if i >= len(b) {
            out[i] = ' '
            continue
        }
        c := b[i]
        if c < 0x20 || c > 0x7E {
            c = ' '
        }
        out[i] = c
    }
    return string(out)
}
