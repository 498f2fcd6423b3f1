package recorder

import (
	"context"
	"sync"
	"time"

	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/log"
)

// WriterOptions 异步写入参数，零值使用默认值
type WriterOptions struct {
	QueueSize     int           // 队列长度，默认1024
	BatchSize     int           // 单批行数，默认100
	FlushInterval time.Duration // 最长攒批时间，默认1s
	InsertTimeout time.Duration // 单批写入超时（含重试），默认5s
}

func (o *WriterOptions) setDefaults() {
	if o.QueueSize <= 0 {
		o.QueueSize = 1024
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 100
	}
	if o.FlushInterval <= 0 {
		o.FlushInterval = time.Second
	}
	if o.InsertTimeout <= 0 {
		o.InsertTimeout = 5 * time.Second
	}
}

// Writer 异步批量写审计记录，请求路径只做非阻塞入队。
type Writer struct {
	repo *Repo
	opts WriterOptions
	ch   chan ExtractionRecord

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewWriter 创建并启动写入协程
func NewWriter(repo *Repo, opts WriterOptions) *Writer {
	opts.setDefaults()
	w := &Writer{
		repo: repo,
		opts: opts,
		ch:   make(chan ExtractionRecord, opts.QueueSize),
		done: make(chan struct{}),
	}
	go w.loop()
	return w
}

// Enqueue 入队，队列满或已关闭时丢弃并返回 false
func (w *Writer) Enqueue(rec ExtractionRecord) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		ReportQueueDropped()
		return false
	}
	select {
	case w.ch <- rec:
		return true
	default:
		ReportQueueDropped()
		log.Warnf("recorder queue full, drop request_id=%s", rec.RequestID)
		return false
	}
}

// Close 停止接收并写完队列中剩余的记录
func (w *Writer) Close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.ch)
	}
	w.mu.Unlock()
	<-w.done
}

func (w *Writer) loop() {
	defer close(w.done)

	tk := time.NewTicker(w.opts.FlushInterval)
	defer tk.Stop()

	batch := make([]ExtractionRecord, 0, w.opts.BatchSize)
	for {
		select {
		case rec, ok := <-w.ch:
			if !ok {
				w.flush(batch)
				return
			}
			batch = append(batch, rec)
			if len(batch) >= w.opts.BatchSize {
				w.flush(batch)
				batch = batch[:0]
			}
		case <-tk.C:
			if len(batch) > 0 {
				w.flush(batch)
				batch = batch[:0]
			}
		}
	}
}

func (w *Writer) flush(rows []ExtractionRecord) {
	if len(rows) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.opts.InsertTimeout)
	defer cancel()

	t0 := time.Now()
	inserted, ignored, didRetry, err := insertWithRetry(ctx, w.repo, rows, w.opts.BatchSize)
	ReportDBInsertLatency(time.Since(t0))

	if err != nil {
		log.Errorf("mysql insert failed after retry: rows=%d error=%v", len(rows), err)
		ReportDBInsertBatchResult("error")
		ReportDBInsertRows("error", int64(len(rows)))
		return
	}
	if didRetry {
		ReportDBInsertBatchResult("retry_ok")
	} else {
		ReportDBInsertBatchResult("ok")
	}
	ReportDBInsertRows("inserted", inserted)
	ReportDBInsertRows("ignored", ignored)
}
