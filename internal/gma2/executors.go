package gma2

import (
    "regexp"
    "strconv"
    "strings"
)

var (
    // 応答に混ざるANSIカラーシーケンスを除去する
    ansiRe = regexp.MustCompile("\x1b\\[[0-9;]*m")

    // "<page>.<番号>" 形式のエグゼキュータID
    execIDRe = regexp.MustCompile(`^(\d+)\.(\d+)$`)
)

// ParseExecutorList は List Executor 応答を行ごとに走査し、
// 指定ページのエグゼキュータ番号→表示名のマップを作る。
// 名前は "Name" 前置フィールドを優先し、無ければ行末フィールドを採用する。
// 解釈できない行は読み飛ばす。
func ParseExecutorList(page int, resp string) map[int]string {
    out := map[int]string{}
    for _, line := range strings.Split(resp, "\n") {
        line = ansiRe.ReplaceAllString(line, "")
        fields := strings.Fields(line)
        if len(fields) < 2 {
            continue
        }

        exec := -1
        idIdx := -1
        for i, f := range fields {
            m := execIDRe.FindStringSubmatch(f)
            if m == nil {
                continue
            }
            p, _ := strconv.Atoi(m[1])
            if p != page {
                break
            }
            exec, _ = strconv.Atoi(m[2])
            idIdx = i
            break
        }
        if exec < 0 {
            continue
        }

        name := ""
        for _, f := range fields[idIdx+1:] {
            if strings.HasPrefix(f, "Name") {
                name = strings.Trim(strings.TrimPrefix(f, "Name"), "\"")
                break
            }
        }
        if name == "" && len(fields) > idIdx+1 {
            // best-effort: 行末フィールド
            name = strings.Trim(fields[len(fields)-1], "\"")
        }
        out[exec] = name
    }
    return out
}
