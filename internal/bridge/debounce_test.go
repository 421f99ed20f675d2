package bridge

import (
    "sync/atomic"
    "testing"
    "time"
)

func TestAckDebouncer_CoalescesWithinWindow(t *testing.T) {
    var fired int32
    d := NewAckDebouncer(40*time.Millisecond, func(ch int) {
        if ch != 2 {
            t.Errorf("ch=%d", ch)
        }
        atomic.AddInt32(&fired, 1)
    })
    defer d.CancelAll()

    // 窓内の2回目はタイマーを置き換える
    d.Schedule(2)
    time.Sleep(15 * time.Millisecond)
    d.Schedule(2)

    time.Sleep(120 * time.Millisecond)
    if got := atomic.LoadInt32(&fired); got != 1 {
        t.Fatalf("fired=%d", got)
    }
}

func TestAckDebouncer_FiresAgainAfterQuietPeriod(t *testing.T) {
    var fired int32
    d := NewAckDebouncer(20*time.Millisecond, func(int) { atomic.AddInt32(&fired, 1) })
    defer d.CancelAll()

    d.Schedule(0)
    time.Sleep(80 * time.Millisecond)
    d.Schedule(0)
    time.Sleep(80 * time.Millisecond)

    if got := atomic.LoadInt32(&fired); got != 2 {
        t.Fatalf("fired=%d", got)
    }
}

func TestAckDebouncer_ChannelsAreIndependent(t *testing.T) {
    var fired int32
    d := NewAckDebouncer(20*time.Millisecond, func(int) { atomic.AddInt32(&fired, 1) })
    defer d.CancelAll()

    d.Schedule(0)
    d.Schedule(1)
    time.Sleep(100 * time.Millisecond)
    if got := atomic.LoadInt32(&fired); got != 2 {
        t.Fatalf("fired=%d", got)
    }
}

func TestAckDebouncer_CancelAllIsFinal(t *testing.T) {
    var fired int32
    d := NewAckDebouncer(20*time.Millisecond, func(int) { atomic.AddInt32(&fired, 1) })

    d.Schedule(3)
    d.CancelAll()
    // 停止後の予約も無効
    d.Schedule(4)

    time.Sleep(100 * time.Millisecond)
    if got := atomic.LoadInt32(&fired); got != 0 {
        t.Fatalf("fired=%d", got)
    }
}

func TestAckDebouncer_OutOfRangeIsIgnored(t *testing.T) {
    d := NewAckDebouncer(time.Millisecond, func(int) { t.Error("must not fire") })
    defer d.CancelAll()
    d.Schedule(-1)
    d.Schedule(8)
    time.Sleep(20 * time.Millisecond)
}
