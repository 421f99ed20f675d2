package gma2

import (
    "errors"
    "fmt"
    "log"
    "net"
    "strings"
    "sync"
    "time"

    retry "github.com/avast/retry-go/v4"
)

const (
    // 応答バッファ。List Executor の応答が一番大きい。
    readBufferSize = 32096

    dialAttempts = 3
)

var (
    // ErrConsole はコンソールが "Error" を含む応答を返したことを表す。
    // 送信済みコマンドの楽観的なローカル状態は巻き戻さない。
    ErrConsole = errors.New("gma2: console reported an error")

    // ErrClosed は接続が使用不能になった後の操作を表す。
    // 自動再接続はしない。復旧には明示的な再接続が必要。
    ErrClosed = errors.New("gma2: connection is closed")
)

// Client は1本のtelnet接続を保持する。コマンドは Send で直列化され、
// 同時に複数のコマンドが机上に載ることはない。
type Client struct {
    mu      sync.Mutex
    conn    net.Conn
    timeout time.Duration
    closed  bool
    debug   bool
}

// Options は接続パラメータ。
type Options struct {
    Host     string
    Port     int
    User     string
    Password string
    Timeout  time.Duration // 応答読み取りの上限。0なら2秒。
    Debug    bool
}

// Dial はコンソールへ接続してログインする。
// 接続確立のみ限定的に再試行する（コマンド送信は再試行しない）。
func Dial(opts Options) (*Client, error) {
    if opts.Timeout <= 0 {
        opts.Timeout = 2 * time.Second
    }
    addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)

    var conn net.Conn
    err := retry.Do(func() error {
        c, err := net.DialTimeout("tcp", addr, opts.Timeout)
        if err != nil {
            return err
        }
        conn = c
        return nil
    }, retry.Attempts(dialAttempts), retry.LastErrorOnly(true))
    if err != nil {
        return nil, fmt.Errorf("コンソールへの接続に失敗しました (%s): %w", addr, err)
    }
    log.Printf("コンソールに接続しました: %s", addr)

    cli := &Client{conn: conn, timeout: opts.Timeout, debug: opts.Debug}
    if _, err := cli.Send(LoginCommand(opts.User, opts.Password)); err != nil && !errors.Is(err, ErrConsole) {
        _ = cli.Close()
        return nil, fmt.Errorf("ログインに失敗しました: %w", err)
    }
    return cli, nil
}

// NewClient は確立済みの接続からクライアントを作る。
// 接続経路を差し替えたいときやテスト用。
func NewClient(conn net.Conn, timeout time.Duration) *Client {
    if timeout <= 0 {
        timeout = 2 * time.Second
    }
    return &Client{conn: conn, timeout: timeout}
}

// Send はコマンドをCR終端で送り、期限付きで応答を1回読む。
// 期限切れでデータなしは「無応答のコンソール」であり失敗ではない。
// ソケットエラーは接続を使用不能にする。
func (c *Client) Send(command string) (string, error) {
    c.mu.Lock()
    defer c.mu.Unlock()

    if c.closed || c.conn == nil {
        return "", ErrClosed
    }
    if c.debug {
        log.Printf("送信: %s", command)
    }

    if _, err := c.conn.Write([]byte(command + "\r")); err != nil {
        c.markClosedLocked()
        return "", fmt.Errorf("コマンド送信に失敗しました: %w", err)
    }

    _ = c.conn.SetReadDeadline(time.Now().Add(c.timeout))
    buf := make([]byte, readBufferSize)
    n, err := c.conn.Read(buf)
    resp := string(buf[:n])
    if err != nil {
        var ne net.Error
        if errors.As(err, &ne) && ne.Timeout() {
            // 応答なし。多くのコマンドは無応答で正常。
            return resp, c.checkError(command, resp)
        }
        c.markClosedLocked()
        return resp, fmt.Errorf("応答読み取りに失敗しました: %w", err)
    }
    return resp, c.checkError(command, resp)
}

func (c *Client) checkError(command, resp string) error {
    if strings.Contains(resp, "Error") {
        log.Printf("コンソールがエラーを報告しました: cmd=%q resp=%q", command, strings.TrimSpace(resp))
        return ErrConsole
    }
    return nil
}

func (c *Client) markClosedLocked() {
    c.closed = true
    if c.conn != nil {
        _ = c.conn.Close()
    }
    log.Print("コンソール接続を使用不能として扱います（自動再接続はしません）")
}

// Close は接続を閉じる。
func (c *Client) Close() error {
    c.mu.Lock()
    defer c.mu.Unlock()
    if c.closed {
        return nil
    }
    c.closed = true
    if c.conn == nil {
        return nil
    }
    return c.conn.Close()
}

// Executors は指定ページのエグゼキュータ一覧を取得して
// 番号→表示名のマップを返す。
func (c *Client) Executors(page int) (map[int]string, error) {
    resp, err := c.Send(ListExecutorRange(page, 1, 120))
    if err != nil && !errors.Is(err, ErrConsole) {
        return nil, err
    }
    return ParseExecutorList(page, resp), nil
}
