package gma2

import (
    "errors"
    "net"
    "strings"
    "testing"
    "time"
)

// fakeConsole は net.Pipe の相手側で1コマンド受けて固定応答を返す。
func fakeConsole(t *testing.T, conn net.Conn, reply string, gotCmd chan<- string) {
    t.Helper()
    go func() {
        buf := make([]byte, 1024)
        n, err := conn.Read(buf)
        if err != nil {
            return
        }
        gotCmd <- string(buf[:n])
        if reply != "" {
            _, _ = conn.Write([]byte(reply))
        }
    }()
}

func TestSend_CRTerminated(t *testing.T) {
    a, b := net.Pipe()
    defer a.Close()
    defer b.Close()

    got := make(chan string, 1)
    fakeConsole(t, b, "OK\n", got)

    cli := NewClient(a, time.Second)
    resp, err := cli.Send("On 1.1")
    if err != nil {
        t.Fatalf("Send: %v", err)
    }
    if cmd := <-got; cmd != "On 1.1\r" {
        t.Fatalf("wire=%q", cmd)
    }
    if resp != "OK\n" {
        t.Fatalf("resp=%q", resp)
    }
}

func TestSend_SilentConsoleIsNotAnError(t *testing.T) {
    a, b := net.Pipe()
    defer a.Close()
    defer b.Close()

    got := make(chan string, 1)
    fakeConsole(t, b, "", got) // 何も返さない

    cli := NewClient(a, 50*time.Millisecond)
    resp, err := cli.Send("Off 1.2")
    if err != nil {
        t.Fatalf("silent console must not fail: %v", err)
    }
    if resp != "" {
        t.Fatalf("resp=%q", resp)
    }
    // 接続は引き続き使える
    fakeConsole(t, b, "fine\n", got)
    if _, err := cli.Send("On 1.2"); err != nil {
        t.Fatalf("second Send: %v", err)
    }
}

func TestSend_ErrorMarker(t *testing.T) {
    a, b := net.Pipe()
    defer a.Close()
    defer b.Close()

    got := make(chan string, 1)
    fakeConsole(t, b, "Error: no executor\n", got)

    cli := NewClient(a, time.Second)
    resp, err := cli.Send("On 9.9")
    if !errors.Is(err, ErrConsole) {
        t.Fatalf("err=%v", err)
    }
    if !strings.Contains(resp, "Error") {
        t.Fatalf("resp=%q", resp)
    }
}

func TestSend_SocketFailureMarksUnusable(t *testing.T) {
    a, b := net.Pipe()
    defer a.Close()

    cli := NewClient(a, time.Second)
    _ = b.Close() // 相手が落ちた

    if _, err := cli.Send("On 1.1"); err == nil {
        t.Fatal("expected write failure")
    }
    // 以後は ErrClosed。再接続は試みない。
    if _, err := cli.Send("On 1.1"); !errors.Is(err, ErrClosed) {
        t.Fatalf("err=%v", err)
    }
}

func TestExecutors_UsesBoundedListing(t *testing.T) {
    a, b := net.Pipe()
    defer a.Close()
    defer b.Close()

    got := make(chan string, 1)
    fakeConsole(t, b, "Exec 2.1 Fader NameHaze\n", got)

    cli := NewClient(a, time.Second)
    names, err := cli.Executors(2)
    if err != nil {
        t.Fatalf("Executors: %v", err)
    }
    if cmd := <-got; cmd != "List Executor 2.1 Thru 2.120\r" {
        t.Fatalf("wire=%q", cmd)
    }
    if names[1] != "Haze" {
        t.Fatalf("names=%#v", names)
    }
}
