package telemetry

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// 查询耗时遥测：显式注入的缓冲上报服务。
//
// 约定：
//   - Observe 从不阻塞调用方：缓冲满时丢弃最旧样本。
//   - 达到 batch_size 或每隔 interval 刷新一次。
//   - 刷新失败重试一次，第二次失败后丢弃该批并计数。

// Sample 一次数据访问操作的耗时样本
type Sample struct {
	Table     string
	Operation string // insert | select | update | delete
	Duration  time.Duration
	Failed    bool
	At        time.Time
}

// Sink 样本批量落地接口
type Sink interface {
	Flush(samples []Sample) error
}

// ZapSink 默认 Sink：按 表+操作 聚合后输出结构化日志
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink 创建 ZapSink
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger}
}

// Flush 聚合样本并写日志
func (s *ZapSink) Flush(samples []Sample) error {
	type agg struct {
		count  int
		failed int
		total  time.Duration
		max    time.Duration
	}
	byKey := make(map[string]*agg)
	var order []string
	for _, sm := range samples {
		key := sm.Table + ":" + sm.Operation
		a, ok := byKey[key]
		if !ok {
			a = &agg{}
			byKey[key] = a
			order = append(order, key)
		}
		a.count++
		if sm.Failed {
			a.failed++
		}
		a.total += sm.Duration
		if sm.Duration > a.max {
			a.max = sm.Duration
		}
	}
	for _, key := range order {
		a := byKey[key]
		s.logger.Info("查询耗时统计",
			zap.String("query", key),
			zap.Int("count", a.count),
			zap.Int("failed", a.failed),
			zap.Duration("avg", a.total/time.Duration(a.count)),
			zap.Duration("max", a.max),
		)
	}
	return nil
}

// Options Recorder 配置
type Options struct {
	BatchSize     int           // 达到该数量立即触发刷新，默认 64
	FlushInterval time.Duration // 周期刷新间隔，默认 30s
	BufferCap     int           // 缓冲容量上限，默认 1024
}

func (o *Options) withDefaults() {
	if o.BatchSize <= 0 {
		o.BatchSize = 64
	}
	if o.FlushInterval <= 0 {
		o.FlushInterval = 30 * time.Second
	}
	if o.BufferCap <= 0 {
		o.BufferCap = 1024
	}
}

// Recorder 查询耗时记录器
type Recorder struct {
	mu      sync.Mutex
	buf     []Sample
	dropped int64

	opts   Options
	sink   Sink
	logger *zap.Logger

	notify chan struct{}
	stop   chan struct{}
	done   chan struct{}
}

// NewRecorder 创建并启动 Recorder 刷新循环
func NewRecorder(sink Sink, logger *zap.Logger, opts Options) *Recorder {
	opts.withDefaults()
	r := &Recorder{
		buf:    make([]Sample, 0, opts.BatchSize),
		opts:   opts,
		sink:   sink,
		logger: logger,
		notify: make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go r.run()
	return r
}

// Observe 记录一次操作耗时（非阻塞）
func (r *Recorder) Observe(table, operation string, d time.Duration, err error) {
	r.mu.Lock()
	if len(r.buf) >= r.opts.BufferCap {
		// 缓冲已满：丢最旧的样本，保证调用方永不阻塞
		r.buf = r.buf[1:]
		r.dropped++
	}
	r.buf = append(r.buf, Sample{
		Table:     table,
		Operation: operation,
		Duration:  d,
		Failed:    err != nil,
		At:        time.Now(),
	})
	full := len(r.buf) >= r.opts.BatchSize
	r.mu.Unlock()

	if full {
		select {
		case r.notify <- struct{}{}:
		default:
		}
	}
}

// Close 停止刷新循环并清空剩余样本
func (r *Recorder) Close() {
	close(r.stop)
	<-r.done
}

func (r *Recorder) run() {
	defer close(r.done)

	ticker := time.NewTicker(r.opts.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.flush()
		case <-r.notify:
			r.flush()
		case <-r.stop:
			r.flush()
			return
		}
	}
}

// flush 交换缓冲并落地；失败重试一次，再失败丢批
func (r *Recorder) flush() {
	r.mu.Lock()
	if len(r.buf) == 0 {
		r.mu.Unlock()
		return
	}
	batch := r.buf
	r.buf = make([]Sample, 0, r.opts.BatchSize)
	dropped := r.dropped
	r.dropped = 0
	r.mu.Unlock()

	if dropped > 0 {
		r.logger.Warn("遥测缓冲溢出，部分样本被丢弃", zap.Int64("dropped", dropped))
	}

	if err := r.sink.Flush(batch); err != nil {
		if err2 := r.sink.Flush(batch); err2 != nil {
			r.logger.Warn("遥测批量落地失败，丢弃该批",
				zap.Int("samples", len(batch)),
				zap.Error(err2),
			)
		}
	}
}
