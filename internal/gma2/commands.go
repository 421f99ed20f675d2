// Package gma2 は grandMA2 のtelnetコマンドプロトコルを話す。
// 行単位・CR終端のASCIIコマンドを1本のストリーム接続に直列で流し、
// 応答はフリーテキストとして受け取る。
package gma2

import "fmt"

// コマンド文字列の組み立て。エグゼキュータは <page>.<番号> で指定する。

func LoginCommand(user, password string) string {
    if password == "" {
        return "Login " + user
    }
    return fmt.Sprintf("Login %s \"%s\"", user, password)
}

func FaderAt(page, exec, percent int) string {
    return fmt.Sprintf("Fader %d.%d At %d", page, exec, percent)
}

func On(page, exec int) string   { return fmt.Sprintf("On %d.%d", page, exec) }
func Off(page, exec int) string  { return fmt.Sprintf("Off %d.%d", page, exec) }
func Temp(page, exec int) string { return fmt.Sprintf("Temp %d.%d", page, exec) }

func Flash(page, exec int) string    { return fmt.Sprintf("Flash %d.%d", page, exec) }
func FlashOff(page, exec int) string { return fmt.Sprintf("Flash Off %d.%d", page, exec) }

func FaderPage(n int) string  { return fmt.Sprintf("FaderPage %d", n) }
func ButtonPage(n int) string { return fmt.Sprintf("ButtonPage %d", n) }

// AttributeRelative は符号を明示した相対値指定（++/--）を組み立てる。
func AttributeRelative(attr string, delta int) string {
    if delta < 0 {
        return fmt.Sprintf("Attribute \"%s\" At --%d", attr, -delta)
    }
    return fmt.Sprintf("Attribute \"%s\" At ++%d", attr, delta)
}

func AttributeAt(attr string, value int) string {
    return fmt.Sprintf("Attribute \"%s\" At %d", attr, value)
}

// Clear は現在のセレクションを解除する。
const Clear = "clear"

func ListExecutorRange(page, from, to int) string {
    return fmt.Sprintf("List Executor %d.%d Thru %d.%d", page, from, page, to)
}
