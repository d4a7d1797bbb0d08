package telemetry

import (
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

// ═══════════════════════════════════════
// Recorder 测试
// ═══════════════════════════════════════

// memSink 测试用 Sink：记录每次 Flush 收到的批
type memSink struct {
	mu      sync.Mutex
	batches [][]Sample
	failN   int // 前 failN 次 Flush 返回错误
}

func (s *memSink) Flush(samples []Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failN > 0 {
		s.failN--
		return errors.New("sink unavailable")
	}
	cp := make([]Sample, len(samples))
	copy(cp, samples)
	s.batches = append(s.batches, cp)
	return nil
}

func (s *memSink) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.batches {
		n += len(b)
	}
	return n
}

func TestRecorder_FlushOnBatchSize(t *testing.T) {
	sink := &memSink{}
	r := NewRecorder(sink, zap.NewNop(), Options{BatchSize: 3, FlushInterval: time.Hour})

	for i := 0; i < 3; i++ {
		r.Observe("jobs", "select", time.Millisecond, nil)
	}

	// 批量刷新是异步的，轮询等待
	deadline := time.Now().Add(2 * time.Second)
	for sink.total() < 3 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	r.Close()

	if got := sink.total(); got != 3 {
		t.Fatalf("期望刷新 3 个样本, 实际 %d", got)
	}
}

func TestRecorder_CloseFlushesRemainder(t *testing.T) {
	sink := &memSink{}
	r := NewRecorder(sink, zap.NewNop(), Options{BatchSize: 100, FlushInterval: time.Hour})

	r.Observe("clients", "insert", 2*time.Millisecond, nil)
	r.Observe("clients", "update", 3*time.Millisecond, errors.New("boom"))
	r.Close()

	if got := sink.total(); got != 2 {
		t.Fatalf("Close 应刷新剩余样本, 期望 2 实际 %d", got)
	}
	if !sink.batches[0][1].Failed {
		t.Error("出错的操作应标记 Failed")
	}
}

func TestRecorder_ObserveNeverBlocksWhenBufferFull(t *testing.T) {
	sink := &memSink{}
	r := NewRecorder(sink, zap.NewNop(), Options{BatchSize: 1000, FlushInterval: time.Hour, BufferCap: 4})

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			r.Observe("scheduling_records", "select", time.Millisecond, nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("缓冲满时 Observe 不应阻塞调用方")
	}

	r.mu.Lock()
	buffered := len(r.buf)
	dropped := r.dropped
	r.mu.Unlock()
	r.Close()

	if buffered > 4 {
		t.Errorf("缓冲不应超过容量上限, 实际 %d", buffered)
	}
	if dropped != 96 {
		t.Errorf("期望丢弃 96 个最旧样本, 实际 %d", dropped)
	}
}

func TestRecorder_RetriesFlushOnce(t *testing.T) {
	// 第一次 Flush 失败，重试应成功落地
	sink := &memSink{failN: 1}
	r := NewRecorder(sink, zap.NewNop(), Options{BatchSize: 100, FlushInterval: time.Hour})

	r.Observe("reports", "update", time.Millisecond, nil)
	r.Close()

	if got := sink.total(); got != 1 {
		t.Fatalf("首次失败后应重试一次并成功, 实际落地 %d 个样本", got)
	}
}

func TestRecorder_DropsBatchAfterSecondFailure(t *testing.T) {
	sink := &memSink{failN: 2}
	r := NewRecorder(sink, zap.NewNop(), Options{BatchSize: 100, FlushInterval: time.Hour})

	r.Observe("reports", "update", time.Millisecond, nil)
	r.Close()

	if got := sink.total(); got != 0 {
		t.Fatalf("重试仍失败时应丢弃该批, 实际落地 %d 个样本", got)
	}
}

func TestZapSink_AggregatesByTableAndOperation(t *testing.T) {
	sink := NewZapSink(zap.NewNop())
	err := sink.Flush([]Sample{
		{Table: "jobs", Operation: "select", Duration: time.Millisecond},
		{Table: "jobs", Operation: "select", Duration: 3 * time.Millisecond, Failed: true},
		{Table: "clients", Operation: "insert", Duration: 2 * time.Millisecond},
	})
	if err != nil {
		t.Fatalf("ZapSink.Flush 应成功: %v", err)
	}
}
